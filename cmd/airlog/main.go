package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaheed/airlog/internal/api"
	"github.com/vaheed/airlog/internal/config"
	"github.com/vaheed/airlog/internal/db"
	"github.com/vaheed/airlog/internal/logging"
	"github.com/vaheed/airlog/internal/version"
)

func main() {
	lg := logging.New("airlog")
	cfg, err := config.Parse()
	if err != nil {
		lg.Error("config", slog.String("error", err.Error()))
		os.Exit(2)
	}
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rl := logging.Rotating(cfg.LogFile)
		defer rl.Close()
		out = rl
	}
	lg = logging.Build("airlog", cfg.LogLevel, out)

	d, err := db.Connect(cfg.DBURL)
	if err != nil {
		lg.Error("db", slog.String("error", err.Error()))
		os.Exit(2)
	}
	defer d.Close()
	d.ConfigurePool(cfg.DBMaxOpen, cfg.DBMaxIdle, cfg.DBConnMaxLife)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = d.Ping(pingCtx)
	cancel()
	if err != nil {
		lg.Error("db", slog.String("error", err.Error()))
		os.Exit(2)
	}

	s := api.New(lg, d, cfg.Location, cfg.DBTimeout())
	s.MustMigrate(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	lg.Info("listening",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("timezone", cfg.Location.String()),
		slog.String("version", version.Full()))
	if err := s.Start(ctx, cfg.HTTPAddr); err != nil {
		lg.Error("http", slog.String("error", err.Error()))
		os.Exit(1)
	}
	lg.Info("shutting down")
}
