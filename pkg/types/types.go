package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Result represents the best candidate found by a mining run.
type Result struct {
	Address  common.Address
	Score    uint32
	Salt     [32]byte
	Attempts int64
	Duration time.Duration
}

// WorkerConfig contains configuration for individual workers.
type WorkerConfig struct {
	Deployer  common.Address
	CodeHash  common.Hash
	Submitter common.Address

	// Pepper is the worker's fixed 4-byte nonce, sampled once at start.
	Pepper [4]byte

	// Index seeds the counter; Stride is the total worker count. Together they
	// partition the counter space so no two workers try the same salt.
	Index  uint64
	Stride uint64

	// MaxAttempts caps the run-wide attempt count when non-zero. Workers stop
	// once the shared counter passes it; zero means run until stopped.
	MaxAttempts int64
}
