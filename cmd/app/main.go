package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/app"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/engine"
	"github.com/Leeps-Lab/oTree-HFT-CDA/internal/infra"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	cfg := bootstrap.Config
	infra.PrintBanner(cfg)

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Venue gateway. Created before the session so the session can
	// send through it; connected after so player_ready is not lost.
	var gateway *infra.ExchangeWorker

	session := engine.NewSession(engine.SessionConfig{
		PlayerID:    cfg.Session.PlayerID,
		MarketID:    cfg.Session.MarketID,
		InitialCash: cfg.Session.InitialCash,
		InboxSize:   cfg.Session.InboxSize,
		Journal:     bootstrap.Journal,
		Sender:      senderFunc(func(data []byte) error { return gateway.Send(data) }),
	})

	gateway = infra.NewExchangeWorker(infra.ExchangeConfig{
		BaseURL:      cfg.Exchange.WSURL,
		SubsessionID: cfg.Session.SubsessionID,
		MarketID:     cfg.Session.MarketID,
		PlayerID:     cfg.Session.PlayerID,
		Inbox:        session.Inbox(),
		Burst:        cfg.Outbound.Burst,
		PerSecond:    cfg.Outbound.PerSecond,
		PingInterval: time.Duration(cfg.Exchange.PingIntervalSec) * time.Second,
		ReadTimeout:  time.Duration(cfg.Exchange.ReadTimeoutSec) * time.Second,
		// The venue starts streaming only after player_ready; re-sent on
		// every reconnect.
		OnConnect: func() error { return session.Outbox().PlayerReady() },
	})

	// 5. Start the hotpath loop, then connect.
	go session.Run(ctx)
	slog.InfoContext(ctx, "✅ Session (hotpath) started")

	gateway.Start(ctx)
	defer gateway.Stop()
	slog.InfoContext(ctx, "✅ Exchange gateway started", slog.String("url", gateway.GetURL()))

	// 6. Periodic checkpoints for post-experiment inspection.
	go bootstrap.RunCheckpoints(ctx, session, 30*time.Second)

	slog.InfoContext(ctx, "✨ HFT client fully operational. Press Ctrl+C to exit.")

	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}

// senderFunc adapts a closure to the session's transport interface.
type senderFunc func(data []byte) error

func (f senderFunc) Send(data []byte) error { return f(data) }
