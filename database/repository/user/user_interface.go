package userRepo

import "context"

// LoyaltyLedger reads customer loyalty balances. One point is worth one
// currency unit. Unknown users have a zero balance.
type LoyaltyLedger interface {
	GetUserPoints(ctx context.Context, userID string) (int64, error)
}
