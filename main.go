package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"restaurant-sync/config"
	"restaurant-sync/db"
	"restaurant-sync/engine"
	"restaurant-sync/mailer"
	"restaurant-sync/notify"
	"restaurant-sync/realtime"
	"restaurant-sync/robot"
	"restaurant-sync/web"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	// Optional auto-migration (useful in production and for fresh DBs).
	// Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(context.Background(), false); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	hub := realtime.NewHub()
	eng := engine.New(engine.NewPGStore(), hub)

	if cfg.Robot.BaseURL != "" {
		eng.Robot = robot.New(cfg.Robot.BaseURL)
		slog.Info("robot dispatch enabled", "url", cfg.Robot.BaseURL)
	}

	var billMailer web.BillSender
	if cfg.SMTP.Host != "" {
		m := mailer.New(cfg.SMTP)
		eng.Mailer = m
		billMailer = m
		slog.Info("receipt mail enabled", "host", cfg.SMTP.Host)
	}

	if cfg.Telegram.Token != "" && cfg.Telegram.AdminChatID != 0 {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "telegram:", err)
			os.Exit(1)
		}
		eng.Notifier = tg
		slog.Info("telegram notifications enabled", "chat", cfg.Telegram.AdminChatID)
	}

	router := web.NewRouter(web.NewHandler(eng, billMailer))

	slog.Info("server running", "addr", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, router); err != nil {
		fmt.Fprintln(os.Stderr, "http:", err)
		os.Exit(1)
	}
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
