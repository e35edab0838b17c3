package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lista-inteligente/internal/config"
	"lista-inteligente/internal/llm"
	"lista-inteligente/internal/logging"
	"lista-inteligente/internal/suggest"
	"lista-inteligente/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.Init("lista-bot", cfg.LogLevel, cfg.AppEnv)

	if err := cfg.ValidateBot(); err != nil {
		log.Error("invalid bot configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Error("failed to create Gemini client", "err", err)
		os.Exit(1)
	}
	if closer, ok := geminiClient.(llm.Closer); ok {
		defer closer.Close()
	}

	suggester := suggest.NewSuggester(geminiClient)

	bot, err := telegram.NewBot(cfg, suggester, log)
	if err != nil {
		log.Error("failed to initialize Telegram bot", "err", err)
		os.Exit(1)
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: nil,
	}

	go func() {
		log.Info("bot server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	log.Info("server exiting")
}
