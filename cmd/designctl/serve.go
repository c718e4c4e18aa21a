package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/designer/gorouter"
	"github.com/goliatone/go-designer/components/designer/httpapi"
)

type serveCmd struct {
	CatalogFlags `embed:""`
	Addr         string `default:":8080" env:"DESIGNER_ADDR" help:"Listen address."`
	BasePath     string `name:"base-path" default:"/admin" env:"DESIGNER_BASE_PATH" help:"Route prefix."`
	LogLevel     string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"DESIGNER_LOG_LEVEL" help:"Log level."`
}

func (cmd *serveCmd) Run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cmd.LogLevel)}))
	opts, err := cmd.options()
	if err != nil {
		return err
	}
	hook := designer.NewBroadcastHook()
	telemetry := designer.NewSlogTelemetry(logger)
	opts.RefreshHook = hook
	opts.Telemetry = telemetry
	opts.Logger = logger
	service := designer.NewService(opts)

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		API:       httpapi.NewCommandExecutor(service, telemetry),
		Broadcast: hook,
		BasePath:  cmd.BasePath,
	}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logger.Info("designer listening", "addr", cmd.Addr, "base", cmd.BasePath)
		errs <- server.Serve(cmd.Addr)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("designer stopped")
	return nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
