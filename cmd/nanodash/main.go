package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dchouse/nanodash/pkg/dashboard"
	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/query"
	"github.com/dchouse/nanodash/pkg/server"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	// init packages
	src := query.Configured()
	d := dashboard.Configured(src)

	// init server
	srv := server.Configured(d)

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
	log.SetDefaultLogLevel(level)
	slog.SetDefault(log.Ctx(context.Background()))
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// If initialization inside lflag.Do failed, we wouldn't be here (panic).
	defer func() {
		if err := src.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close query source", "error", err)
		}
	}()

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := d.Ping(pingCtx); err != nil {
		// the server still starts so /healthz reports the outage
		log.Ctx(ctx).WarnContext(ctx, "query source unreachable at startup", "error", err)
	}
	pingCancel()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		cancel()
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
