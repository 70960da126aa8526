package main

import (
	"testing"

	"github.com/gigurra/financial-profile/internal"
	"github.com/gigurra/financial-profile/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRefreshLogger(t *testing.T) {
	log, logs := observedLogger()

	p := internal.New()
	p.SetListener(refreshLogger(log))
	p.AddAsset("Cash", 500, internal.AssetCash)
	p.Add(internal.CategoryExpense, "Rent", 200)
	p.Refresh()

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	want := []string{"assets updated", "expenses updated", "profile refreshed"}
	if len(messages) != len(want) {
		t.Fatalf("messages = %v, want %v", messages, want)
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Errorf("messages[%d] = %q, want %q", i, messages[i], want[i])
		}
	}

	refreshed := logs.FilterMessage("profile refreshed").All()[0]
	fields := refreshed.ContextMap()
	if fields["net_worth"] != 500.0 {
		t.Errorf("net_worth = %v, want 500", fields["net_worth"])
	}
	if fields["disposable_income"] != 0.0 {
		t.Errorf("disposable_income = %v, want 0", fields["disposable_income"])
	}
}

func TestRefreshLogger_CleanRefreshIsSilent(t *testing.T) {
	log, logs := observedLogger()

	p := internal.New()
	p.SetListener(refreshLogger(log))
	p.AddAsset("Cash", 500, internal.AssetCash)
	p.Refresh()
	start := logs.Len()
	p.Refresh()

	if logs.Len() != start {
		t.Errorf("clean refresh logged %d entries", logs.Len()-start)
	}
}
