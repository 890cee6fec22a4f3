// Package order submits host buy and sell requests as brokerage market
// orders.
package order

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tradier-bridge/internal/session"
	"tradier-bridge/internal/tradier"
)

// ErrNoAccount reports a profile with an empty account list. There is no
// account-selection policy beyond "first", so an empty list is unrecoverable.
var ErrNoAccount = errors.New("order: profile has no accounts")

// API is the slice of the brokerage client the adapter consumes.
type API interface {
	GetUserProfile(ctx context.Context) (tradier.Profile, error)
	PlaceOrder(ctx context.Context, account string, order tradier.OrderRequest) (int64, error)
}

// Source builds an order API client for a logged-in session.
type Source func(tradier.Config) API

// Adapter submits market orders for the active account.
type Adapter struct {
	sess   *session.Store
	source Source
	logger *zap.Logger
}

// NewAdapter creates an order adapter.
func NewAdapter(sess *session.Store, source Source, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{sess: sess, source: source, logger: logger}
}

// SubmitMarket submits a good-until-cancelled market order and returns the
// broker order id. A negative amount sells, a positive amount buys; the
// magnitude is the share quantity.
func (a *Adapter) SubmitMarket(ctx context.Context, symbol string, amount int) (int64, error) {
	cfg, ok := a.sess.Config()
	if !ok {
		return 0, session.ErrNotReady
	}
	api := a.source(cfg)

	profile, err := api.GetUserProfile(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolving account: %w", err)
	}
	if len(profile.Account) == 0 {
		return 0, ErrNoAccount
	}
	account := profile.Account[0].AccountNumber

	side := tradier.SideBuy
	if amount < 0 {
		side = tradier.SideSell
	}
	quantity := amount
	if quantity < 0 {
		quantity = -quantity
	}

	a.logger.Info("submitting_order",
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Int("quantity", quantity),
		zap.String("account", account),
	)

	id, err := api.PlaceOrder(ctx, account, tradier.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Quantity: uint64(quantity),
		Type:     "market",
		Duration: "gtc",
	})
	if err != nil {
		return 0, fmt.Errorf("placing order: %w", err)
	}

	a.logger.Info("order_placed",
		zap.String("symbol", symbol),
		zap.Int64("order_id", id),
	)
	return id, nil
}
