package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"papertrade/internal/engine"
	"papertrade/internal/quote"
	"papertrade/internal/store"
	"papertrade/params"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use a global flag for the env file.
var envFile = flag.String("env", "", "path to a .env file with configuration overrides")

// app bundles everything a subcommand needs for one invocation.
type app struct {
	cfg     params.Config
	log     *zap.Logger
	store   store.Store
	quotes  quote.Source
	session *engine.Session
}

func openApp(ctx context.Context) (*app, error) {
	return openAppSource(ctx, nil)
}

// openAppSource lets a command decorate the quote source, e.g. to observe
// every lookup during a settlement sweep.
func openAppSource(ctx context.Context, decorate func(quote.Source) quote.Source) (*app, error) {
	cfg := params.LoadFromEnv(*envFile)
	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var src quote.Source = quote.NewYahooSource(cfg.Quotes.Endpoint, cfg.Quotes.Timeout)
	if decorate != nil {
		src = decorate(src)
	}

	session, err := engine.NewSession(ctx, st, src, cfg.StartingBalance)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	return &app{cfg: cfg, log: log, store: st, quotes: src, session: session}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func openStore(ctx context.Context, cfg params.Config) (store.Store, error) {
	if cfg.Storage.PostgresURL != "" {
		return store.NewPostgresStore(ctx, cfg.Storage.PostgresURL)
	}
	return store.NewPebbleStore(cfg.Storage.DataDir)
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// formatMoney renders an amount in INR, e.g. "₹1,000,000.00".
func formatMoney(d decimal.Decimal) string {
	cur := *money.New(0, money.INR).Currency()
	return cur.Formatter().Format(d.Shift(int32(cur.Fraction)).IntPart())
}
