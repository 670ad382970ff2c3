package miner

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/screa/v4-address-miner/pkg/types"
)

// Registry is the shared best-result cell. All workers offer their candidates
// here; only a strictly higher score replaces the stored value, so ties keep
// whichever candidate was installed first.
type Registry struct {
	mu     sync.Mutex
	addr   common.Address
	score  uint32
	salt   [32]byte
	notify func(addr common.Address, score uint32, salt [32]byte)
}

// NewRegistry creates a registry seeded with (seed, 0). Score 0 marks
// disqualified candidates, so the first valid candidate always wins. notify,
// if non-nil, is invoked under the registry lock on every improvement, which
// keeps notification order identical to update order.
func NewRegistry(seed common.Address, notify func(addr common.Address, score uint32, salt [32]byte)) *Registry {
	return &Registry{addr: seed, notify: notify}
}

// Offer installs the candidate iff its score strictly beats the stored one.
func (r *Registry) Offer(addr common.Address, score uint32, salt [32]byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if score <= r.score {
		return false
	}
	r.addr, r.score, r.salt = addr, score, salt
	if r.notify != nil {
		r.notify(addr, score, salt)
	}
	return true
}

// Best returns a snapshot of the stored best candidate.
func (r *Registry) Best() (common.Address, uint32, [32]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr, r.score, r.salt
}

// BestResult returns the stored best as a Result, or nil if nothing has beaten
// the seed yet.
func (r *Registry) BestResult() *types.Result {
	addr, score, salt := r.Best()
	if score == 0 {
		return nil
	}
	return &types.Result{Address: addr, Score: score, Salt: salt}
}
