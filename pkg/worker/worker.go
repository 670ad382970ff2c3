package worker

import (
	"encoding/binary"
	"hash"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/screa/v4-address-miner/internal/crypto"
	"github.com/screa/v4-address-miner/pkg/score"
	"github.com/screa/v4-address-miner/pkg/types"
)

// Sink receives scored candidates. Offer reports whether the candidate
// replaced the previous best.
type Sink interface {
	Offer(addr common.Address, s uint32, salt [32]byte) bool
}

// Worker grinds through its slice of the salt space: assemble salt, derive the
// CREATE2 address, score it, offer it to the sink.
type Worker struct {
	config   *types.WorkerConfig
	attempts *int64
	counter  uint64

	// Pre-allocated buffers so the hot loop does not allocate.
	hasher   hash.Hash
	inputBuf []byte
	hashBuf  []byte
	saltBuf  [32]byte
	addrBuf  common.Address
}

// NewWorker creates a worker. attempts is the run-wide attempt counter shared
// with all other workers.
func NewWorker(config *types.WorkerConfig, attempts *int64) *Worker {
	w := &Worker{
		config:   config,
		attempts: attempts,
		counter:  config.Index,
		hasher:   crypto.NewKeccak256(),
		inputBuf: crypto.Create2InputBuffer(config.Deployer, config.CodeHash),
		hashBuf:  make([]byte, 0, 32),
	}
	// The first 24 salt bytes never change for this worker.
	copy(w.saltBuf[:20], config.Submitter[:])
	copy(w.saltBuf[20:24], config.Pepper[:])
	return w
}

// Next tries the current counter value and advances it by the stride. Returns
// the derived address, its score, and the salt that produced it.
func (w *Worker) Next() (common.Address, uint32, [32]byte) {
	binary.BigEndian.PutUint64(w.saltBuf[24:], w.counter)
	copy(w.inputBuf[crypto.Create2SaltOffset:crypto.Create2SaltOffset+crypto.Create2SaltLen], w.saltBuf[:])

	crypto.Create2AddressInto(w.hasher, w.inputBuf, w.hashBuf, w.addrBuf[:])
	s := score.Score(w.addrBuf)

	w.counter += w.config.Stride
	return w.addrBuf, s, w.saltBuf
}

// Run searches until done is closed or the shared attempt budget (when set) is
// exhausted. Every candidate is offered to the sink; the sink decides whether
// it is an improvement.
func (w *Worker) Run(done <-chan struct{}, sink Sink) {
	for {
		select {
		case <-done:
			return
		default:
		}

		addr, s, salt := w.Next()
		sink.Offer(addr, s, salt)

		n := atomic.AddInt64(w.attempts, 1)
		if w.config.MaxAttempts > 0 && n >= w.config.MaxAttempts {
			return
		}
	}
}
