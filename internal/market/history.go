// Package market adapts the brokerage time-and-sales feed into the host's
// fixed-format history records.
package market

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tradier-bridge/internal/bridge"
	"tradier-bridge/internal/session"
	"tradier-bridge/internal/tradier"
)

// ErrUnsupportedGranularity reports a history request at a bar width other
// than one minute. Distinct from an empty result.
var ErrUnsupportedGranularity = errors.New("market: only 1-minute bars are supported")

// TimeSales is the slice of the brokerage client the adapter consumes.
type TimeSales interface {
	GetTimeSales(ctx context.Context, symbol, interval string, start, end time.Time) ([]tradier.Bar, error)
}

// Source builds a time-and-sales client for a logged-in session.
type Source func(tradier.Config) TimeSales

// Adapter produces host candle records for a symbol and time range.
type Adapter struct {
	sess      *session.Store
	source    Source
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAdapter creates a market data adapter. retentionDays is how far back the
// provider retains 1-minute bars; older range starts are narrowed to it.
func NewAdapter(sess *session.Store, source Source, retentionDays int, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		sess:      sess,
		source:    source,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
		now:       time.Now,
	}
}

// History fetches 1-minute candles for symbol between the host day-count
// bounds and writes at most maxTicks records into buf, newest first. It
// returns the number of records written. A provider failure is logged and
// yields zero records, which the host reads as "no data".
func (a *Adapter) History(ctx context.Context, symbol string, startDate, endDate float64, tickMinutes, maxTicks int, buf bridge.RecordBuffer) (int, error) {
	if tickMinutes != 1 {
		return 0, ErrUnsupportedGranularity
	}
	if maxTicks <= 0 {
		return 0, nil
	}

	cfg, ok := a.sess.Config()
	if !ok {
		return 0, session.ErrNotReady
	}

	start := bridge.FromDayCount(startDate)
	end := bridge.FromDayCount(endDate)

	// The provider does not retain bars older than the retention window;
	// narrow the range instead of failing.
	oldest := a.now().Add(-a.retention)
	if start.Before(oldest) {
		start = oldest
	}

	bars, err := a.source(cfg).GetTimeSales(ctx, symbol, "1min", start, end)
	if err != nil {
		a.logger.Warn("timesales_failed",
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		a.sess.Notify("history fetch failed for " + symbol)
		return 0, nil
	}

	records := make([]bridge.Candle, 0, len(bars))
	for _, bar := range bars {
		records = append(records, bridge.Candle{
			Time:  bridge.ToDayCount(time.Unix(bar.Timestamp, 0).UTC()),
			High:  float32(bar.High),
			Low:   float32(bar.Low),
			Open:  float32(bar.Open),
			Close: float32(bar.Close),
			Vol:   float32(bar.Volume),
		})
	}

	// The provider returns oldest first; the host wants the most recent bar
	// at index zero.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if len(records) > maxTicks {
		records = records[:maxTicks]
	}

	n := buf.Write(records)
	a.logger.Debug("history_written",
		zap.String("symbol", symbol),
		zap.Int("bars", len(bars)),
		zap.Int("written", n),
	)
	return n, nil
}
