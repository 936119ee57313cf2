// Package research runs the product-trend fetch and keeps the cached
// snapshot current.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"allmarket/internal/domain"
	"allmarket/internal/gateway"
	"allmarket/internal/leadstore"
	"allmarket/internal/scraper"
)

// ErrNoProducts is returned when nothing is cached and the fetch came back
// empty.
var ErrNoProducts = errors.New("no products available")

const enrichWorkers = 4

// Service coordinates the gateway, the optional page scraper and the store.
type Service struct {
	store   *leadstore.Store
	gateway gateway.Gateway
	scraper scraper.Scraper // nil disables enrichment
	log     logrus.FieldLogger
	now     func() time.Time
	flight  singleflight.Group
}

// NewService wires a research service. pageScraper may be nil.
func NewService(store *leadstore.Store, gw gateway.Gateway, pageScraper scraper.Scraper, logger logrus.FieldLogger) *Service {
	return &Service{
		store:   store,
		gateway: gw,
		scraper: pageScraper,
		log:     logger.WithField("component", "research"),
		now:     time.Now,
	}
}

// Load returns the research snapshot with resolved links. The cached
// snapshot is used unless it is missing or force is set, in which case the
// gateway is asked for fresh products. An empty fetch leaves the cache as it
// was.
//
// Concurrent refreshes share one gateway call. Page enrichment only runs on
// forced refreshes, so a cold storefront read never waits on the scraper.
func (s *Service) Load(ctx context.Context, force bool) (domain.ResearchResult, error) {
	if !force {
		if cached, ok := s.store.GetResearch(ctx); ok {
			return cached, nil
		}
	}

	key := "cold"
	if force {
		key = "sync"
	}
	// The shared call outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.refresh(shared, force)
	})
	if err != nil {
		return domain.ResearchResult{}, err
	}
	return v.(domain.ResearchResult), nil
}

func (s *Service) refresh(ctx context.Context, force bool) (domain.ResearchResult, error) {
	cached, ok := s.store.GetResearch(ctx)
	if ok && !force {
		// Filled by a refresh that finished after the caller's cache check.
		return cached, nil
	}

	log := s.log.WithFields(logrus.Fields{"force": force, "had_cache": ok})
	log.Info("Refreshing research snapshot")

	raw := s.gateway.FetchTrends(ctx)
	if len(raw) == 0 {
		log.Warn("Gateway returned no products, keeping prior snapshot")
		if ok {
			return cached, nil
		}
		return domain.ResearchResult{}, ErrNoProducts
	}

	now := s.now()
	products := assignIDs(raw, now)
	if force {
		s.enrich(ctx, products)
	}

	if err := s.store.SaveResearch(ctx, domain.ResearchResult{LastUpdated: now.UTC(), Items: products}); err != nil {
		return domain.ResearchResult{}, fmt.Errorf("failed to cache research: %w", err)
	}

	fresh, ok := s.store.GetResearch(ctx)
	if !ok {
		return domain.ResearchResult{}, ErrNoProducts
	}
	log.WithField("items", len(fresh.Items)).Info("Research snapshot refreshed")
	return fresh, nil
}

// Analyze returns the gateway's analysis of niche. Failures are returned to
// the caller unchanged.
func (s *Service) Analyze(ctx context.Context, niche string) (domain.MarketAnalysis, error) {
	return s.gateway.AnalyzeNiche(ctx, niche)
}

// assignIDs turns raw gateway output into products with ids
// prod-<index>-<unixMillis>.
func assignIDs(raw []gateway.RawProduct, now time.Time) []domain.Product {
	stamp := now.UnixMilli()
	products := make([]domain.Product, len(raw))
	for i, r := range raw {
		products[i] = domain.Product{
			ID:                fmt.Sprintf("prod-%d-%d", i, stamp),
			Name:              r.Name,
			Niche:             r.Niche,
			Description:       r.Description,
			Link:              r.Link,
			ImageURL:          r.ImageURL,
			Platform:          r.Platform,
			TotalCommission:   r.TotalCommission,
			PartnerCommission: r.PartnerCommission,
		}
	}
	return products
}

// enrich fills in missing images from the merchant pages, at most
// enrichWorkers at a time. Failures are logged and skipped.
func (s *Service) enrich(ctx context.Context, products []domain.Product) {
	if s.scraper == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for i := range products {
		p := &products[i]
		if p.ImageURL != "" || p.Link == "" {
			continue
		}
		g.Go(func() error {
			meta, err := s.scraper.ScrapePage(gctx, p.Link)
			if err != nil {
				s.log.WithError(err).WithField("product_id", p.ID).Warn("Image enrichment failed")
				return nil
			}
			p.ImageURL = meta.ImageURL
			if p.Description == "" {
				p.Description = meta.Description
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Search keeps the products whose name or niche contains query, ignoring
// case. An empty query keeps everything.
func Search(items []domain.Product, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	matched := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Niche), q) {
			matched = append(matched, p)
		}
	}
	return matched
}
