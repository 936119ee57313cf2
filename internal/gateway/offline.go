package gateway

import (
	"context"
	"errors"
	"strings"

	"allmarket/internal/domain"
)

// ErrUnavailable is returned by Offline for every analysis request.
var ErrUnavailable = errors.New("AI gateway is not configured")

// Offline is the Gateway used when no API key is configured. Trend fetches
// come back empty, so readers keep whatever snapshot is cached.
type Offline struct{}

func (Offline) FetchTrends(context.Context) []RawProduct { return []RawProduct{} }

func (Offline) AnalyzeNiche(_ context.Context, niche string) (domain.MarketAnalysis, error) {
	if strings.TrimSpace(niche) == "" {
		return domain.MarketAnalysis{}, ErrEmptyNiche
	}
	return domain.MarketAnalysis{}, ErrUnavailable
}
