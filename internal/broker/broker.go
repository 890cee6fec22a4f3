// Package broker is the entry surface the trading host drives: one method per
// plugin export, with every internal failure converted to the host's
// documented return codes. Nothing below this layer may reach the host as a
// panic or an error value.
package broker

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"tradier-bridge/internal/bridge"
	"tradier-bridge/internal/config"
	"tradier-bridge/internal/market"
	"tradier-bridge/internal/order"
	"tradier-bridge/internal/session"
	"tradier-bridge/internal/tradier"
)

// Host return codes.
const (
	OpenOK      = 2
	LoginOK     = 1
	LoginFailed = 0
	AssetOK     = 1
	Failed      = 0
)

// PluginTag identifies this plugin to the host. It is written back into the
// host's name buffer at open time.
const PluginTag = "TR"

// Clients is the brokerage API surface the broker consumes. *tradier.Client
// implements it; tests substitute mocks.
type Clients interface {
	market.TimeSales
	order.API
}

// Factory builds an API client for a session config.
type Factory func(tradier.Config) Clients

// Broker wires the session store and the data and order adapters behind the
// host entry points.
type Broker struct {
	cfg     *config.Config
	sess    *session.Store
	clients Factory
	history *market.Adapter
	orders  *order.Adapter
	logger  *zap.Logger

	// capabilities is the fixed table BrokerCommand looks numeric codes up
	// in. Unrecognized codes return the neutral zero.
	capabilities map[int]float64
}

// Capability codes the host probes via the command entry point.
const (
	// cmdMaxTicks asks for the largest candle count one history call returns.
	cmdMaxTicks = 43
)

// New creates a Broker sharing the given session store. A nil factory wires
// the real Tradier client.
func New(cfg *config.Config, sess *session.Store, logger *zap.Logger, factory Factory) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if factory == nil {
		factory = func(c tradier.Config) Clients {
			return tradier.NewClient(c, cfg.Timeout(), logger)
		}
	}

	return &Broker{
		cfg:     cfg,
		sess:    sess,
		clients: factory,
		history: market.NewAdapter(sess, func(c tradier.Config) market.TimeSales {
			return factory(c)
		}, cfg.History.RetentionDays, logger),
		orders: order.NewAdapter(sess, func(c tradier.Config) order.API {
			return factory(c)
		}, logger),
		logger: logger,
		capabilities: map[int]float64{
			cmdMaxTicks: float64(cfg.History.MaxTicks),
		},
	}
}

// Open registers the host reporting callback. It performs no network traffic
// and always reports success.
func (b *Broker) Open(cb session.Callback) int {
	b.sess.SetCallback(cb)
	b.logger.Info("broker_open", zap.String("plugin", PluginTag))
	return OpenOK
}

// Login verifies the token against the brokerage profile endpoint and, on
// success, stores the session config every later call depends on. The kind
// "Real" selects the live endpoint; anything else trades in the sandbox.
func (b *Broker) Login(ctx context.Context, user, pwd, kind, accounts string) int {
	endpoint := b.cfg.Tradier.SandboxEndpoint
	if kind == "Real" {
		endpoint = b.cfg.Tradier.LiveEndpoint
	}
	cfg := tradier.Config{Endpoint: endpoint, Token: pwd}

	if _, err := b.clients(cfg).GetUserProfile(ctx); err != nil {
		b.logger.Warn("login_failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		b.sess.Notify("login failed: " + err.Error())
		return LoginFailed
	}

	b.sess.SetConfig(cfg)
	b.logger.Info("login_ok", zap.String("endpoint", endpoint))
	return LoginOK
}

// Asset subscribes a symbol on its first sighting. The returned first flag
// tells the caller to report the zero no-data price sentinel; later calls for
// the same symbol are a no-op success. Before login the call fails.
func (b *Broker) Asset(symbol string) (first bool, status int) {
	if _, ok := b.sess.Config(); !ok {
		b.logger.Warn("asset_before_login", zap.String("symbol", symbol))
		return false, Failed
	}

	if b.sess.Subscribe(symbol) {
		b.logger.Info("asset_subscribed", zap.String("symbol", symbol))
		return true, AssetOK
	}
	return false, AssetOK
}

// History2 delegates to the market data adapter and returns the number of
// records written into buf, or zero on any failure.
func (b *Broker) History2(ctx context.Context, symbol string, startDate, endDate float64, tickMinutes, maxTicks int, buf bridge.RecordBuffer) int {
	n, err := b.history.History(ctx, symbol, startDate, endDate, tickMinutes, maxTicks, buf)
	switch {
	case errors.Is(err, session.ErrNotReady):
		b.logger.Warn("history_before_login", zap.String("symbol", symbol))
		return Failed
	case errors.Is(err, market.ErrUnsupportedGranularity):
		b.logger.Warn("history_granularity_rejected",
			zap.String("symbol", symbol),
			zap.Int("tick_minutes", tickMinutes),
		)
		b.sess.Notify("unsupported history granularity")
		return Failed
	case err != nil:
		b.logger.Error("history_failed", zap.String("symbol", symbol), zap.Error(err))
		return Failed
	}
	return n
}

// Buy2 submits a market order and returns the broker order id, or zero on any
// failure. Order ids are narrowed to the host's 32-bit width; an id wider
// than that is a documented limitation and is logged when it happens.
func (b *Broker) Buy2(ctx context.Context, symbol string, amount int) int {
	id, err := b.orders.SubmitMarket(ctx, symbol, amount)
	switch {
	case errors.Is(err, session.ErrNotReady):
		b.logger.Warn("order_before_login", zap.String("symbol", symbol))
		return Failed
	case errors.Is(err, order.ErrNoAccount):
		b.logger.Error("order_no_account", zap.String("symbol", symbol))
		b.sess.Notify("order rejected: no account in profile")
		return Failed
	case err != nil:
		b.logger.Error("order_failed", zap.String("symbol", symbol), zap.Error(err))
		b.sess.Notify("order failed for " + symbol)
		return Failed
	}

	if id > math.MaxInt32 || id < math.MinInt32 {
		b.logger.Warn("order_id_exceeds_host_width", zap.Int64("order_id", id))
	}
	return int(int32(id))
}

// Command looks code up in the fixed capability table. Unrecognized codes
// return the neutral zero, never an error; no state changes either way.
func (b *Broker) Command(code, data int) float64 {
	if v, ok := b.capabilities[code]; ok {
		return v
	}
	return 0
}
