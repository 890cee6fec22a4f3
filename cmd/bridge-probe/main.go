// bridge-probe is a diagnostic tool that drives the broker entry surface the
// way the trading host would: login, asset subscription, and a 1-minute
// history fetch, printed to stdout. Orders are deliberately not reachable
// from here.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	"unsafe"

	"tradier-bridge/internal/bridge"
	"tradier-bridge/internal/broker"
	"tradier-bridge/internal/config"
	"tradier-bridge/internal/logging"
	"tradier-bridge/internal/session"
)

func main() {
	configPath := flag.String("config", "config/tradier-bridge.yaml", "path to configuration file")
	symbol := flag.String("symbol", "AAPL", "symbol to fetch")
	lookback := flag.Int("lookback", 120, "minutes of history to request")
	ticks := flag.Int("ticks", 300, "maximum candles to fetch")
	token := flag.String("token", os.Getenv("TRADIER_TOKEN"), "access token (defaults to TRADIER_TOKEN)")
	real := flag.Bool("real", false, "use the live endpoint instead of the sandbox")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "no access token: pass -token or set TRADIER_TOKEN")
		os.Exit(1)
	}
	if *ticks <= 0 {
		fmt.Fprintln(os.Stderr, "-ticks must be positive")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[bridge-probe] using default config: %v\n", err)
		cfg = config.Default()
	}

	log, err := logging.Build(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	sess := session.New()
	brk := broker.New(cfg, sess, log, nil)

	kind := "Demo"
	if *real {
		kind = "Real"
	}

	ctx := context.Background()

	report := func(msg string) {
		fmt.Printf("[host-callback] %s\n", msg)
	}
	if status := brk.Open(report); status != broker.OpenOK {
		fmt.Fprintf(os.Stderr, "open failed: status %d\n", status)
		os.Exit(1)
	}
	if status := brk.Login(ctx, "", *token, kind, ""); status != broker.LoginOK {
		fmt.Fprintf(os.Stderr, "login failed: status %d\n", status)
		os.Exit(1)
	}
	fmt.Printf("[bridge-probe] logged in (%s)\n", kind)

	if first, status := brk.Asset(*symbol); status == broker.AssetOK {
		fmt.Printf("[bridge-probe] asset %s subscribed (first=%v)\n", *symbol, first)
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(*lookback) * time.Minute)

	records := make([]bridge.Candle, *ticks)
	buf := bridge.NewRecordBuffer(unsafe.Pointer(&records[0]), len(records))

	n := brk.History2(ctx, *symbol,
		bridge.ToDayCount(start), bridge.ToDayCount(end), 1, *ticks, buf)

	fmt.Printf("[bridge-probe] %d candles for %s (newest first)\n", n, *symbol)
	for i := 0; i < n; i++ {
		r := records[i]
		fmt.Printf("%s  O=%.4f H=%.4f L=%.4f C=%.4f V=%.0f\n",
			bridge.FromDayCount(r.Time).Format("2006-01-02 15:04"),
			r.Open, r.High, r.Low, r.Close, r.Vol)
	}
}
