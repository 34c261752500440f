package compound

import (
	"context"
	"fmt"
	"time"

	solana "github.com/gagliardetto/solana-go"

	chain "autocompound-go/internal/solana"
)

// Gate decides whether a tick should submit. A false result with a reason skips the tick.
type Gate interface {
	Allow(ctx context.Context) (bool, string, error)
}

// MinHashGate reads the wallet's user_state and only lets ticks through once
// the accrued hash reaches Min.
type MinHashGate struct {
	RPC       chain.RPC
	UserState solana.PublicKey
	Program   solana.PublicKey
	Min       uint64
	Now       func() time.Time
}

func (g *MinHashGate) Allow(ctx context.Context) (bool, string, error) {
	state, err := chain.FetchUserState(ctx, g.RPC, g.UserState, g.Program)
	if err != nil {
		return false, "", err
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	accrued := state.AccruedHash(now())
	if accrued < g.Min {
		return false, fmt.Sprintf("accrued hash %d below minimum %d", accrued, g.Min), nil
	}
	return true, "", nil
}
