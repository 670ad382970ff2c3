package miner

import (
	"bytes"
	"encoding/binary"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/screa/v4-address-miner/internal/config"
	"github.com/screa/v4-address-miner/internal/crypto"
	"github.com/screa/v4-address-miner/internal/logger"
	"github.com/screa/v4-address-miner/pkg/score"
)

func TestNewMiner(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Workers = 4

	m, err := NewMiner(cfg, logger.New())
	if err != nil {
		t.Fatalf("NewMiner() error = %v", err)
	}

	if len(m.workerConfigs) != 4 {
		t.Fatalf("got %d worker configs, want 4", len(m.workerConfigs))
	}

	deployer := common.HexToAddress(config.DefaultDeployer)
	submitter := common.HexToAddress(config.DefaultSubmitter)
	for i, wc := range m.workerConfigs {
		if wc.Index != uint64(i) {
			t.Errorf("worker %d: index = %d", i, wc.Index)
		}
		if wc.Stride != 4 {
			t.Errorf("worker %d: stride = %d, want 4", i, wc.Stride)
		}
		if wc.Deployer != deployer || wc.Submitter != submitter {
			t.Errorf("worker %d: constants not propagated", i)
		}
	}
}

func TestNewMinerResolvesWorkerCount(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Workers = 0

	m, err := NewMiner(cfg, logger.New())
	if err != nil {
		t.Fatalf("NewMiner() error = %v", err)
	}
	if cfg.Workers <= 0 || len(m.workerConfigs) != cfg.Workers {
		t.Errorf("worker count not resolved: cfg.Workers = %d, configs = %d",
			cfg.Workers, len(m.workerConfigs))
	}
}

func TestNewMinerRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"short deployer", func(c *config.Config) { c.Deployer = "0x1234" }},
		{"non-hex submitter", func(c *config.Config) { c.Submitter = "0xzz46B370a1A16B959bFF7d47010E256C50Db8330" }},
		{"short code hash", func(c *config.Config) { c.InitCodeHash = "0xdeadbeef" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			cfg.Workers = 1
			tt.mutate(cfg)
			if _, err := NewMiner(cfg, logger.New()); err == nil {
				t.Error("NewMiner() accepted invalid configuration")
			}
		})
	}
}

// With one worker and a pinned pepper the search is fully deterministic: two
// runs must log the identical update sequence and land on the same best, and
// that best must match a straight sequential recomputation.
func TestMineDeterministic(t *testing.T) {
	const limit = 3000
	pepper := [4]byte{0x01, 0x02, 0x03, 0x04}

	run := func() (string, *bytes.Buffer) {
		cfg := config.NewConfig()
		cfg.Workers = 1
		cfg.Limit = limit

		buf := &bytes.Buffer{}
		log := logger.NewWriter(buf)
		log.SetFlags(0)

		m, err := NewMiner(cfg, log)
		if err != nil {
			t.Fatalf("NewMiner() error = %v", err)
		}
		m.workerConfigs[0].Pepper = pepper

		result := m.Mine()
		if result == nil {
			t.Fatal("Mine() returned nil with a qualifying candidate expected")
		}
		if result.Attempts != limit {
			t.Fatalf("attempts = %d, want %d", result.Attempts, limit)
		}
		return result.Address.Hex(), buf
	}

	addr1, log1 := run()
	addr2, log2 := run()
	if addr1 != addr2 {
		t.Errorf("runs disagree: %s vs %s", addr1, addr2)
	}
	if !bytes.Equal(log1.Bytes(), log2.Bytes()) {
		t.Errorf("update sequences differ:\n%s\nvs\n%s", log1, log2)
	}

	// Sequential recomputation of the same counter range.
	cfg := config.NewConfig()
	deployer, _ := cfg.DeployerAddress()
	codeHash, _ := cfg.CodeHash()
	submitter, _ := cfg.SubmitterAddress()

	var bestAddr common.Address
	var bestScore uint32
	var salt [32]byte
	copy(salt[:20], submitter[:])
	copy(salt[20:24], pepper[:])
	for counter := uint64(0); counter < limit; counter++ {
		binary.BigEndian.PutUint64(salt[24:], counter)
		addr := crypto.Create2Address(deployer, salt, codeHash)
		if s := score.Score(addr); s > bestScore {
			bestAddr, bestScore = addr, s
		}
	}

	if bestScore == 0 {
		t.Fatalf("no candidate in the first %d counters qualified; widen the limit", limit)
	}
	if addr1 != bestAddr.Hex() {
		t.Errorf("Mine() best = %s, sequential best = %s (score %d)", addr1, bestAddr.Hex(), bestScore)
	}
}

// Every improvement must be reported as exactly
// "New best address: 0x<40 hex> with score: <score>, salt: 0x<64 hex>".
func TestImprovementLineFormat(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Workers = 1

	buf := &bytes.Buffer{}
	log := logger.NewWriter(buf)
	log.SetFlags(0)

	m, err := NewMiner(cfg, log)
	if err != nil {
		t.Fatalf("NewMiner() error = %v", err)
	}

	addr := common.HexToAddress("0x44440000000000000000000000000000000000AB")
	salt := [32]byte{0: 0xb4, 31: 0x07}
	if !m.registry.Offer(addr, 44, salt) {
		t.Fatal("Offer() rejected an improving candidate")
	}

	want := "New best address: 0x44440000000000000000000000000000000000ab" +
		" with score: 44, salt: 0xb4" + strings.Repeat("0", 60) + "07\n"
	if got := buf.String(); got != want {
		t.Errorf("improvement line = %q, want %q", got, want)
	}

	re := regexp.MustCompile(`^New best address: 0x[0-9a-f]{40} with score: \d+, salt: 0x[0-9a-f]{64}\n$`)
	if !re.MatchString(buf.String()) {
		t.Errorf("improvement line %q does not match the documented format", buf.String())
	}
}

func TestStopTerminatesMine(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Workers = 2

	buf := &bytes.Buffer{}
	m, err := NewMiner(cfg, logger.NewWriter(buf))
	if err != nil {
		t.Fatalf("NewMiner() error = %v", err)
	}

	finished := make(chan struct{})
	go func() {
		m.Mine()
		close(finished)
	}()

	time.Sleep(50 * time.Millisecond)
	m.Stop()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Mine did not return after Stop")
	}
}
