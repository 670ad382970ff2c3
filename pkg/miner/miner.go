package miner

import (
	"crypto/rand"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/screa/v4-address-miner/internal/config"
	"github.com/screa/v4-address-miner/internal/logger"
	"github.com/screa/v4-address-miner/pkg/types"
	"github.com/screa/v4-address-miner/pkg/worker"
)

// Miner coordinates the search: it owns the registry, spawns one worker per
// configured unit of parallelism, and runs until stopped or until the optional
// attempt budget is spent.
type Miner struct {
	config        *config.Config
	logger        *logger.Logger
	registry      *Registry
	workerConfigs []*types.WorkerConfig
	attempts      int64
	done          chan struct{}
	wg            sync.WaitGroup
	once          sync.Once
}

// NewMiner builds a miner from a validated configuration. The constants are
// decoded here, before any worker starts, so malformed hex is fatal up front.
func NewMiner(cfg *config.Config, log *logger.Logger) (*Miner, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	deployer, err := cfg.DeployerAddress()
	if err != nil {
		return nil, fmt.Errorf("deployer: %w", err)
	}
	codeHash, err := cfg.CodeHash()
	if err != nil {
		return nil, fmt.Errorf("init code hash: %w", err)
	}
	submitter, err := cfg.SubmitterAddress()
	if err != nil {
		return nil, fmt.Errorf("submitter: %w", err)
	}

	m := &Miner{
		config: cfg,
		logger: log,
		done:   make(chan struct{}),
	}

	// Notify runs under the registry lock, so improvement lines always appear
	// in the order the updates landed.
	m.registry = NewRegistry(deployer, func(addr common.Address, score uint32, salt [32]byte) {
		log.Printf("New best address: 0x%x with score: %d, salt: 0x%x", addr[:], score, salt[:])
	})

	for i := 0; i < cfg.Workers; i++ {
		var pepper [4]byte
		if _, err := rand.Read(pepper[:]); err != nil {
			return nil, fmt.Errorf("sampling pepper: %w", err)
		}
		m.workerConfigs = append(m.workerConfigs, &types.WorkerConfig{
			Deployer:    deployer,
			CodeHash:    codeHash,
			Submitter:   submitter,
			Pepper:      pepper,
			Index:       uint64(i),
			Stride:      uint64(cfg.Workers),
			MaxAttempts: cfg.Limit,
		})
	}

	return m, nil
}

// Mine starts the workers and blocks until they finish. With no attempt limit
// the workers only finish after Stop is called.
func (m *Miner) Mine() *types.Result {
	start := time.Now()

	for _, wc := range m.workerConfigs {
		m.wg.Add(1)
		go func(wc *types.WorkerConfig) {
			defer m.wg.Done()
			worker.NewWorker(wc, &m.attempts).Run(m.done, m.registry)
		}(wc)
	}

	var logTicker *time.Ticker
	var logDone chan struct{}
	if m.config.Verbose {
		interval := time.Duration(m.config.LogInterval) * time.Second
		logTicker = time.NewTicker(interval)
		logDone = make(chan struct{})
		go m.periodicLogger(logTicker, logDone, start)
	}

	m.wg.Wait()

	if logTicker != nil {
		logTicker.Stop()
		close(logDone)
	}

	result := m.registry.BestResult()
	if result != nil {
		result.Attempts = atomic.LoadInt64(&m.attempts)
		result.Duration = time.Since(start)
	}
	return result
}

// Stop asks all workers to exit at their next iteration boundary.
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.done) })
}

// GetBestResult returns the current best result, or nil if no candidate has
// qualified yet.
func (m *Miner) GetBestResult() *types.Result {
	result := m.registry.BestResult()
	if result != nil {
		result.Attempts = atomic.LoadInt64(&m.attempts)
	}
	return result
}

// periodicLogger logs mining progress at regular intervals.
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan struct{}, start time.Time) {
	for {
		select {
		case <-ticker.C:
			attempts := atomic.LoadInt64(&m.attempts)
			elapsed := time.Since(start)

			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			addr, score, _ := m.registry.Best()
			if score > 0 {
				m.logger.Printf("Progress: %d attempts, %.2f hashes/sec, best: %s (score %d)",
					attempts, rate, addr.Hex(), score)
			} else {
				m.logger.Printf("Progress: %d attempts, %.2f hashes/sec, no qualifying address yet",
					attempts, rate)
			}
		case <-done:
			return
		}
	}
}
