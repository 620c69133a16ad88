package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"kursbot/bot"
	"kursbot/core/config"
	"kursbot/core/database"
	"kursbot/core/health"
	"kursbot/core/logger"
	"kursbot/core/storage"
	"kursbot/core/telegram"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.App.Error("startup failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := database.RunMigrations(db, cfg.Database); err != nil {
		logger.App.Error("startup failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := bot.New(cfg, storage.New(db))
	reg := app.Registry()

	if cfg.Health.Port > 0 {
		go func() {
			if err := health.Start(ctx, cfg.Health.Port); err != nil {
				logger.App.Error("health listener failed", slog.String("err", err.Error()))
			}
		}()
	}

	logger.App.Info("bot starting", slog.String("event", "startup"))
	if err := telegram.Run(ctx, telegram.RunOptions{
		Token:                  cfg.Telegram.Token,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Middlewares:            app.Middlewares(),
		Routes:                 telegram.Routes(reg, app.RouterOptions()),
		Commands:               reg.ListCommands(),
	}); err != nil {
		logger.App.Error("bot stopped with error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.App.Info("bot stopped", slog.String("event", "shutdown"))
}
