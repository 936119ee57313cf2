// Package gateway asks a hosted generative model for trending products and
// niche analyses, using JSON response schemas.
package gateway

import (
	"context"
	"errors"

	"allmarket/internal/domain"
)

var (
	// ErrEmptyNiche is returned when AnalyzeNiche is called without a niche.
	ErrEmptyNiche = errors.New("niche is required")

	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// RawProduct is a product as the model returns it, before an id is assigned.
type RawProduct struct {
	Name              string   `json:"name"`
	Niche             string   `json:"niche"`
	Description       string   `json:"description"`
	Link              string   `json:"link"`
	Platform          string   `json:"platform"`
	ImageURL          string   `json:"imageUrl"`
	TotalCommission   *float64 `json:"totalCommission,omitempty"`
	PartnerCommission *float64 `json:"partnerCommission,omitempty"`
}

// Gateway is the AI collaborator.
type Gateway interface {
	// FetchTrends returns trending products. It never fails: any error
	// yields an empty slice so callers keep whatever they had cached.
	FetchTrends(ctx context.Context) []RawProduct

	// AnalyzeNiche returns a structured market analysis for niche.
	AnalyzeNiche(ctx context.Context, niche string) (domain.MarketAnalysis, error)
}
