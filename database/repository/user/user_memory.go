package userRepo

import (
	"context"
	"sync"
)

// MemoryLedger is a process-local LoyaltyLedger. Users without an explicit
// balance get DefaultBalance.
type MemoryLedger struct {
	DefaultBalance int64

	mu       sync.RWMutex
	balances map[string]int64
}

func NewMemoryLedger(defaultBalance int64) *MemoryLedger {
	return &MemoryLedger{DefaultBalance: defaultBalance, balances: make(map[string]int64)}
}

// SetPoints overrides the balance of one user.
func (l *MemoryLedger) SetPoints(userID string, points int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = points
}

func (l *MemoryLedger) GetUserPoints(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if p, ok := l.balances[userID]; ok {
		if p < 0 {
			return 0, nil
		}
		return p, nil
	}
	return l.DefaultBalance, nil
}
