package session

import (
	"sync"
	"testing"

	"tradier-bridge/internal/tradier"
)

func TestSubscribeOnce(t *testing.T) {
	s := New()

	if !s.Subscribe("AAPL") {
		t.Error("first Subscribe should insert")
	}
	if s.Subscribe("AAPL") {
		t.Error("second Subscribe should be a no-op")
	}
	if !s.Subscribed("AAPL") {
		t.Error("AAPL should be subscribed")
	}
	if s.Subscribed("MSFT") {
		t.Error("MSFT should not be subscribed")
	}
	if got := s.SubscriptionCount(); got != 1 {
		t.Errorf("SubscriptionCount = %d, want 1", got)
	}
}

func TestConfigAbsentUntilSet(t *testing.T) {
	s := New()

	if _, ok := s.Config(); ok {
		t.Fatal("Config should be absent before login")
	}

	s.SetConfig(tradier.Config{Endpoint: tradier.SandboxEndpoint, Token: "a"})
	s.SetConfig(tradier.Config{Endpoint: tradier.LiveEndpoint, Token: "b"})

	cfg, ok := s.Config()
	if !ok {
		t.Fatal("Config should be present after SetConfig")
	}
	if cfg.Endpoint != tradier.LiveEndpoint || cfg.Token != "b" {
		t.Errorf("Config did not keep the latest value: %+v", cfg)
	}
}

func TestNotifyWithoutCallback(t *testing.T) {
	s := New()
	// Must silently drop, not panic.
	s.Notify("nobody listening")
}

func TestNotifyDelivers(t *testing.T) {
	s := New()
	var got string
	s.SetCallback(func(msg string) { got = msg })

	s.Notify("hello host")
	if got != "hello host" {
		t.Errorf("callback received %q", got)
	}
}

func TestNotifySurvivesPanickingCallback(t *testing.T) {
	s := New()
	s.SetCallback(func(string) { panic("host bug") })
	s.Notify("boom")
}

func TestConcurrentSubscribe(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	inserted := make([]bool, 32)

	for i := range inserted {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inserted[i] = s.Subscribe("SPY")
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range inserted {
		if ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("%d goroutines reported insertion, want exactly 1", count)
	}
}
