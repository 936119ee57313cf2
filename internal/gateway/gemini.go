package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"allmarket/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiOptions configures a GeminiGateway.
type GeminiOptions struct {
	APIKey       string
	Model        string
	ProductCount int
	// Timeout bounds each call. Zero leaves calls bounded only by ctx.
	Timeout time.Duration
}

// generator is the slice of the genai client the gateway needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGateway implements Gateway with the Gemini API.
type GeminiGateway struct {
	models  generator
	model   string
	count   int
	timeout time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewGeminiGateway creates a Gemini client.
func NewGeminiGateway(ctx context.Context, opts GeminiOptions, logger logrus.FieldLogger) (*GeminiGateway, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiGateway(client.Models, opts, logger), nil
}

func newGeminiGateway(models generator, opts GeminiOptions, logger logrus.FieldLogger) *GeminiGateway {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.ProductCount <= 0 {
		opts.ProductCount = 12
	}
	return &GeminiGateway{
		models:  models,
		model:   opts.Model,
		count:   opts.ProductCount,
		timeout: opts.Timeout,
		log:     logger.WithField("component", "gateway"),
		now:     time.Now,
	}
}

// generateJSON runs one prompt with a response schema and returns the raw
// JSON text.
func (g *GeminiGateway) generateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// FetchTrends asks for the configured number of trending products.
func (g *GeminiGateway) FetchTrends(ctx context.Context) []RawProduct {
	log := g.log.WithFields(logrus.Fields{"model": g.model, "count": g.count})
	log.Info("Fetching market trends")

	text, err := g.generateJSON(ctx, trendsPrompt(g.count), productSchema())
	if err != nil {
		log.WithError(err).Warn("Trend fetch failed, returning no products")
		return []RawProduct{}
	}

	products, err := parseProducts(text)
	if err != nil {
		log.WithError(err).Warn("Trend response unparsable, returning no products")
		return []RawProduct{}
	}

	log.WithField("received", len(products)).Info("Market trends fetched")
	return products
}

// AnalyzeNiche asks for a structured analysis of niche.
func (g *GeminiGateway) AnalyzeNiche(ctx context.Context, niche string) (domain.MarketAnalysis, error) {
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return domain.MarketAnalysis{}, ErrEmptyNiche
	}
	log := g.log.WithFields(logrus.Fields{"model": g.model, "niche": niche})
	log.Info("Analyzing niche")

	text, err := g.generateJSON(ctx, analysisPrompt(niche), analysisSchema())
	if err != nil {
		log.WithError(err).Error("Niche analysis failed")
		return domain.MarketAnalysis{}, err
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		log.WithError(err).Error("Niche analysis unparsable")
		return domain.MarketAnalysis{}, err
	}
	analysis.ID = uuid.NewString()
	analysis.Niche = niche
	analysis.CreatedAt = g.now().UTC()
	return analysis, nil
}

func parseProducts(text string) ([]RawProduct, error) {
	var products []RawProduct
	if err := json.Unmarshal([]byte(text), &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	if products == nil {
		products = []RawProduct{}
	}
	return products, nil
}

func parseAnalysis(text string) (domain.MarketAnalysis, error) {
	var analysis domain.MarketAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return domain.MarketAnalysis{}, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return analysis, nil
}
