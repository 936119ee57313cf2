package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// ErrBrowserNotFound is returned when no Chromium binary is available.
var ErrBrowserNotFound = errors.New("rod browser dependency not found")

var (
	descriptionSelectors = []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
	}
	imageSelectors = []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:url"]`,
		`meta[name="twitter:image"]`,
	}
)

// RodScraper implements Scraper with a headless browser launched per page.
type RodScraper struct {
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRodScraper creates a scraper. timeout bounds each page load; zero
// means 30 seconds.
func NewRodScraper(timeout time.Duration, logger logrus.FieldLogger) *RodScraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RodScraper{
		log:     logger.WithField("component", "scraper"),
		timeout: timeout,
	}
}

// ScrapePage fetches metadata for one product page.
func (s *RodScraper) ScrapePage(ctx context.Context, url string) (meta PageMetadata, err error) {
	log := s.log.WithField("url", url)
	log.Debug("Scraping product page")

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return PageMetadata{}, ErrBrowserNotFound
	}
	controlURL, err := launcher.New().Bin(path).Headless(true).Launch()
	if err != nil {
		return PageMetadata{}, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err = browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return PageMetadata{}, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Error closing rod browser instance")
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return PageMetadata{}, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			log.WithError(closeErr).Debug("Error closing rod page")
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	page = page.Context(pageCtx)

	if err = page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.WithError(pageCtx.Err()).Warn("Scraping timed out")
			return PageMetadata{}, fmt.Errorf("scraping timed out for %s: %w", url, pageCtx.Err())
		}
		return PageMetadata{}, fmt.Errorf("failed waiting for page load: %w", err)
	}

	if has, el, err := page.Has("title"); err == nil && has {
		if title, err := el.Text(); err == nil {
			meta.Title = strings.TrimSpace(title)
		}
	}
	meta.Description = firstContent(page, descriptionSelectors)
	meta.ImageURL = firstContent(page, imageSelectors)

	log.WithFields(logrus.Fields{
		"title":     meta.Title,
		"has_image": meta.ImageURL != "",
	}).Debug("Product page scraped")
	return meta, nil
}

// firstContent returns the first non-empty content attribute among the
// selectors, without waiting for elements that are not there.
func firstContent(page *rod.Page, selectors []string) string {
	for _, selector := range selectors {
		has, el, err := page.Has(selector)
		if err != nil || !has {
			continue
		}
		content, err := el.Attribute("content")
		if err != nil || content == nil {
			continue
		}
		if v := strings.TrimSpace(*content); v != "" {
			return v
		}
	}
	return ""
}
