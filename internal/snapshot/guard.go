package snapshot

import "sync"

// RunGuard keeps at most one reconciliation cycle running at a time. A
// second caller must see the guard held and bail out, never block.
type RunGuard interface {
	TryAcquire() bool
	Release()
}

// CycleGuard is the in-process guard, enough for a single tracker instance.
// A redis-backed implementation lives in the redis subpackage for multi-
// process deployments.
type CycleGuard struct {
	mu sync.Mutex
}

func NewCycleGuard() *CycleGuard {
	return &CycleGuard{}
}

func (g *CycleGuard) TryAcquire() bool {
	return g.mu.TryLock()
}

func (g *CycleGuard) Release() {
	g.mu.Unlock()
}
