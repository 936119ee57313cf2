package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"allmarket/internal/bot"
	"allmarket/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when a token is configured, the operator bot",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	rs, err := a.research(ctx)
	if err != nil {
		return err
	}

	handler := httpapi.NewHandler(a.store, rs, a.capture(), log)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           httpapi.SetupRouter(cfg.Server, handler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var botHandler *bot.Handler
	if cfg.Telegram.BotToken != "" {
		botHandler, err = bot.NewHandler(cfg.Telegram, a.store, rs, log)
		if err != nil {
			return err
		}
	} else {
		log.Info("No Telegram bot token configured, operator bot disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if botHandler != nil {
		g.Go(func() error {
			botHandler.Start(gctx)
			return nil
		})
	}

	log.Info("AllMarket is running. Press Ctrl+C to exit.")
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("AllMarket stopped with an error")
		return err
	}
	log.Info("AllMarket shut down gracefully.")
	return nil
}
