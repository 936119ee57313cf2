package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"allmarket/internal/capture"
	"allmarket/internal/config"
	"allmarket/internal/gateway"
	"allmarket/internal/leadstore"
	"allmarket/internal/mailer"
	"allmarket/internal/research"
	"allmarket/internal/scraper"
	"allmarket/internal/storage"
)

// app is the set of components shared by every command.
type app struct {
	cfg   config.Config
	log   *logrus.Logger
	kv    storage.Store
	store *leadstore.Store
}

func openApp(cfg config.Config, log *logrus.Logger) (*app, error) {
	kv, err := openStore(cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:   cfg,
		log:   log,
		kv:    kv,
		store: leadstore.New(kv, log),
	}, nil
}

// openStore opens Badger at the configured path, or a MemoryStore when
// storage.in_memory is set.
func openStore(cfg config.StorageConfig, log *logrus.Logger) (storage.Store, error) {
	if cfg.InMemory {
		log.Warn("Using in-memory storage, nothing will be persisted")
		return storage.NewMemoryStore(), nil
	}
	kv, err := storage.NewBadgerStore(storage.BadgerOptions{
		Path:       cfg.BadgerDBPath,
		GCInterval: cfg.GCInterval,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return kv, nil
}

func (a *app) Close() {
	a.log.Info("Closing database...")
	if err := a.kv.Close(); err != nil {
		a.log.WithError(err).Error("Error closing database")
	}
}

// gateway returns the Gemini gateway, or Offline when no key is configured.
func (a *app) gateway(ctx context.Context) (gateway.Gateway, error) {
	if a.cfg.AI.APIKey == "" {
		a.log.Warn("No AI API key configured, product sync and analysis are disabled")
		return gateway.Offline{}, nil
	}
	gw, err := gateway.NewGeminiGateway(ctx, gateway.GeminiOptions{
		APIKey:       a.cfg.AI.APIKey,
		Model:        a.cfg.AI.Model,
		ProductCount: a.cfg.AI.ProductCount,
		Timeout:      a.cfg.AI.Timeout,
	}, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI gateway: %w", err)
	}
	return gw, nil
}

func (a *app) research(ctx context.Context) (*research.Service, error) {
	gw, err := a.gateway(ctx)
	if err != nil {
		return nil, err
	}
	var pageScraper scraper.Scraper
	if a.cfg.Scraper.Enabled {
		pageScraper = scraper.NewRodScraper(a.cfg.Scraper.Timeout, a.log)
	}
	return research.NewService(a.store, gw, pageScraper, a.log), nil
}

func (a *app) capture() *capture.Service {
	var m mailer.Mailer = mailer.Noop{}
	if a.cfg.Email.ResendAPIKey != "" {
		rm, err := mailer.NewResendMailer(a.cfg.Email.ResendAPIKey, a.cfg.Email.From, a.cfg.Email.FromName, a.log)
		if err != nil {
			a.log.WithError(err).Warn("Email delivery disabled")
		} else {
			m = rm
		}
	}
	return capture.NewService(a.store, m, a.log)
}
