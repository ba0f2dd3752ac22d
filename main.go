// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/polling/cliparse"
	"github.com/danielhkuo/polling/db"
	"github.com/danielhkuo/polling/logging"
	"github.com/danielhkuo/polling/middleware"
	"github.com/danielhkuo/polling/polls"
	"github.com/danielhkuo/polling/router"
	"github.com/danielhkuo/polling/session"
	"github.com/danielhkuo/polling/store"
	"github.com/danielhkuo/polling/votelock"
)

func main() {
	var err error

	// Load .env before reading flags so env fallbacks see it
	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("Error parsing log level", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, level)
	slog.SetDefault(logger)

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	opts := []polls.Option{polls.WithLogger(logger)}

	// Optional Redis vote lock
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := votelock.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		opts = append(opts, polls.WithLocker(votelock.NewRedis(client)))
		slog.Info("Redis vote lock enabled")
	}

	svc := polls.NewService(store.New(dbConn, cfg.DatabaseType), opts...)
	sessions := session.NewManager(cfg.SessionSecret, cfg.CookieSecure)

	// Create router
	mux := router.NewRouter(svc, sessions)

	// Create server
	server := http.Server{
		Handler:           middleware.Recover(middleware.CORS(mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight votes finish
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
