// Package leadstore owns the persisted lead, research, override and settings
// documents, and derives every product's effective affiliate link when the
// research snapshot is read.
package leadstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"allmarket/internal/domain"
	"allmarket/internal/storage"
)

// ErrMalformedDocument is returned by appending writes when the stored
// document exists but cannot be decoded.
var ErrMalformedDocument = errors.New("stored document is malformed")

// Document keys in the key-value store.
const (
	KeyLeads       = "leads"
	KeyResearch    = "research"
	KeyCustomLinks = "custom_links"
	KeySettings    = "settings"
)

// Store is the lead & link store. Construct one per process and share it.
type Store struct {
	kv  storage.Store
	log logrus.FieldLogger

	// mu serialises read-modify-write sequences so concurrent requests
	// in this process never drop each other's updates.
	mu sync.Mutex
}

// New wraps a key-value store.
func New(kv storage.Store, logger logrus.FieldLogger) *Store {
	return &Store{
		kv:  kv,
		log: logger.WithField("component", "leadstore"),
	}
}

// load decodes the document under key into v. Absent, unreadable or
// malformed documents all report false and leave v untouched, as does a
// stored JSON null.
func (s *Store) load(ctx context.Context, key string, v interface{}) bool {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Failed to read document, treating as absent")
		return false
	}
	if !found || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Malformed document, treating as absent")
		return false
	}
	return true
}

// loadForUpdate decodes the document under key ahead of a write-back. Unlike
// load it refuses to treat an unreadable or malformed document as absent, so
// the write cannot replace data it failed to read.
func (s *Store) loadForUpdate(ctx context.Context, key string, v interface{}) error {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.WithError(err).WithField("key", key).Error("Malformed document, refusing to overwrite")
		return fmt.Errorf("%w: %s: %v", ErrMalformedDocument, key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// GetSettings returns the saved settings, or the defaults when none exist.
func (s *Store) GetSettings(ctx context.Context) domain.AppSettings {
	settings := domain.DefaultSettings()
	var stored domain.AppSettings
	if s.load(ctx, KeySettings, &stored) {
		settings = stored
	}
	return settings
}

// SaveSettings overwrites the whole settings record.
func (s *Store) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	if err := s.save(ctx, KeySettings, settings); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"prefix":     settings.GlobalAffiliatePrefix,
		"auto_apply": settings.AutoApplyPrefix,
	}).Info("Settings saved")
	return nil
}

// GetCustomLinks returns the operator's link overrides keyed by product id.
// The result is never nil.
func (s *Store) GetCustomLinks(ctx context.Context) map[string]string {
	var links map[string]string
	if !s.load(ctx, KeyCustomLinks, &links) || links == nil {
		links = make(map[string]string)
	}
	return links
}

// SaveCustomLink sets or replaces the override for one product.
func (s *Store) SaveCustomLink(ctx context.Context, productID, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var links map[string]string
	if err := s.loadForUpdate(ctx, KeyCustomLinks, &links); err != nil {
		return err
	}
	if links == nil {
		links = make(map[string]string)
	}
	links[productID] = link
	if err := s.save(ctx, KeyCustomLinks, links); err != nil {
		return err
	}
	s.log.WithField("product_id", productID).Info("Custom link saved")
	return nil
}

// SaveLead appends a lead. Duplicates are kept. A stored leads document that
// cannot be decoded is left in place and ErrMalformedDocument is returned.
func (s *Store) SaveLead(ctx context.Context, lead domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var leads []domain.Lead
	if err := s.loadForUpdate(ctx, KeyLeads, &leads); err != nil {
		return err
	}
	leads = append(leads, lead)
	if err := s.save(ctx, KeyLeads, leads); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"lead_id":    lead.ID,
		"product_id": lead.ProductID,
		"total":      len(leads),
	}).Info("Lead saved")
	return nil
}

// GetLeads returns every lead in insertion order. The result is never nil.
func (s *Store) GetLeads(ctx context.Context) []domain.Lead {
	var leads []domain.Lead
	if !s.load(ctx, KeyLeads, &leads) || leads == nil {
		leads = []domain.Lead{}
	}
	return leads
}

// SaveResearch replaces the cached research snapshot.
func (s *Store) SaveResearch(ctx context.Context, result domain.ResearchResult) error {
	if err := s.save(ctx, KeyResearch, result); err != nil {
		return err
	}
	s.log.WithField("items", len(result.Items)).Info("Research snapshot saved")
	return nil
}

// GetResearch returns the cached snapshot with every item's AffiliateLink
// resolved against the current overrides and settings. The stored snapshot
// itself is left as it is. ok is false when nothing has been cached.
func (s *Store) GetResearch(ctx context.Context) (result domain.ResearchResult, ok bool) {
	if !s.load(ctx, KeyResearch, &result) {
		return domain.ResearchResult{}, false
	}

	overrides := s.GetCustomLinks(ctx)
	settings := s.GetSettings(ctx)

	items := make([]domain.Product, len(result.Items))
	for i, p := range result.Items {
		p.AffiliateLink = ResolveLink(p, overrides, settings)
		items[i] = p
	}
	result.Items = items
	return result, true
}

// Resolve returns p with AffiliateLink derived from the current overrides
// and settings, for products that are not in the cached snapshot.
func (s *Store) Resolve(ctx context.Context, p domain.Product) domain.Product {
	p.AffiliateLink = ResolveLink(p, s.GetCustomLinks(ctx), s.GetSettings(ctx))
	return p
}

// GetProduct looks a product up in the resolved research snapshot.
func (s *Store) GetProduct(ctx context.Context, id string) (domain.Product, bool) {
	research, ok := s.GetResearch(ctx)
	if !ok {
		return domain.Product{}, false
	}
	for _, p := range research.Items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
