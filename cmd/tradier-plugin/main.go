// Package main builds the Tradier broker plugin as a C shared library for a
// Zorro-style trading host. Each exported function is one host entry point;
// everything behind the boundary lives in the internal packages. This layer
// only converts C values, guards against panics, and keeps the process-wide
// singletons.
//
// Build with: go build -buildmode=c-shared -o Tradier.dll ./cmd/tradier-plugin
package main

/*
#include <stdlib.h>

#include "hostcall.h"
*/
import "C"

import (
	"context"
	"sync"
	"unicode/utf8"
	"unsafe"

	"go.uber.org/zap"

	"tradier-bridge/internal/bridge"
	"tradier-bridge/internal/broker"
	"tradier-bridge/internal/config"
	"tradier-bridge/internal/logging"
	"tradier-bridge/internal/session"
)

// configPath is resolved relative to the host's working directory.
const configPath = "config/tradier-bridge.yaml"

var (
	initOnce sync.Once
	sess     *session.Store
	brk      *broker.Broker
	logger   *zap.Logger
)

// bootstrap wires config, logging, and the broker exactly once, no matter
// which entry point the host calls first or from how many threads. It never
// fails: a broken config degrades to defaults so BrokerOpen can still report
// success.
func bootstrap() {
	initOnce.Do(func() {
		cfg, cfgErr := config.Load(configPath)
		if cfgErr != nil {
			cfg = config.Default()
		}

		sess = session.New()

		log, err := logging.Build(cfg.Log.Level, cfg.Log.File, logging.NotifySyncer(sess))
		if err != nil {
			log = zap.NewNop()
		}
		logger = log

		if cfgErr != nil {
			logger.Info("config_defaults", zap.String("path", configPath))
		}

		brk = broker.New(cfg, sess, logger, nil)
	})
}

// goString copies a host C string into Go, rejecting nil pointers and invalid
// UTF-8 at the boundary instead of letting them reach the API layer.
func goString(s *C.char) (string, bool) {
	if s == nil {
		return "", false
	}
	str := C.GoString(s)
	if !utf8.ValidString(str) {
		logger.Warn("invalid_host_string")
		sess.Notify("could not convert host string")
		return "", false
	}
	return str, true
}

// hostCallback adapts the C reporting function pointer into the session's
// callback type.
func hostCallback(fn C.host_report_fn) session.Callback {
	if fn == nil {
		return nil
	}
	return func(msg string) {
		cstr := C.CString(msg + "\n")
		defer C.free(unsafe.Pointer(cstr))
		C.bridgeReport(fn, cstr)
	}
}

// guard turns a panic into the documented failure code so nothing unwinds
// across the foreign boundary.
func guard(entry string, fail C.int, ret *C.int) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error("entry_panic", zap.String("entry", entry), zap.Any("panic", r))
		}
		*ret = fail
	}
}

//export BrokerOpen
func BrokerOpen(name *C.char, fpError C.host_report_fn, fpProgress C.host_report_fn) (ret C.int) {
	bootstrap()
	defer guard("BrokerOpen", 0, &ret)

	// The host reads the plugin tag back out of its own name buffer.
	bridge.WriteCString(unsafe.Pointer(name), broker.PluginTag)

	return C.int(brk.Open(hostCallback(fpError)))
}

//export BrokerLogin
func BrokerLogin(user, pwd, kind, accounts *C.char) (ret C.int) {
	bootstrap()
	defer guard("BrokerLogin", C.int(broker.LoginFailed), &ret)

	u, ok1 := goString(user)
	p, ok2 := goString(pwd)
	k, ok3 := goString(kind)
	a, ok4 := goString(accounts)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return C.int(broker.LoginFailed)
	}

	return C.int(brk.Login(context.Background(), u, p, k, a))
}

//export BrokerAsset
func BrokerAsset(asset *C.char, pPrice, pSpread, pVolume, pPip, pPipCost, pLotAmount, pMarginCost, pRollLong, pRollShort *C.double) (ret C.int) {
	bootstrap()
	defer guard("BrokerAsset", C.int(broker.Failed), &ret)

	symbol, ok := goString(asset)
	if !ok {
		return C.int(broker.Failed)
	}

	first, status := brk.Asset(symbol)
	if first && pPrice != nil {
		// No live quote feed yet; zero tells the host "no data".
		*pPrice = 0
	}
	return C.int(status)
}

//export BrokerHistory2
func BrokerHistory2(asset *C.char, tStart, tEnd C.double, nTickMinutes, nTicks C.int, ticks unsafe.Pointer) (ret C.int) {
	bootstrap()
	defer guard("BrokerHistory2", C.int(broker.Failed), &ret)

	symbol, ok := goString(asset)
	if !ok {
		return C.int(broker.Failed)
	}

	buf := bridge.NewRecordBuffer(ticks, int(nTicks))
	return C.int(brk.History2(context.Background(), symbol,
		float64(tStart), float64(tEnd), int(nTickMinutes), int(nTicks), buf))
}

//export BrokerBuy2
func BrokerBuy2(asset *C.char, amount C.int, stopDist, limit C.double, pPrice *C.double, pFill *C.int) (ret C.int) {
	bootstrap()
	defer guard("BrokerBuy2", C.int(broker.Failed), &ret)

	symbol, ok := goString(asset)
	if !ok {
		return C.int(broker.Failed)
	}

	return C.int(brk.Buy2(context.Background(), symbol, int(amount)))
}

//export BrokerCommand
func BrokerCommand(command, data C.int) (ret C.double) {
	bootstrap()
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error("entry_panic", zap.String("entry", "BrokerCommand"), zap.Any("panic", r))
			}
			ret = 0
		}
	}()

	return C.double(brk.Command(int(command), int(data)))
}

// main is never called; buildmode=c-shared requires a main package.
func main() {}
