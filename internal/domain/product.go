package domain

import "time"

// Product is a trending product suggested by the AI gateway.
type Product struct {
	// ID is assigned at fetch time as prod-<index>-<unixMillis>.
	ID string `json:"id"`

	Name        string `json:"name"`
	Niche       string `json:"niche"`
	Description string `json:"description"`

	// Link is the canonical merchant URL.
	Link string `json:"link"`

	ImageURL string `json:"imageUrl"`
	Platform string `json:"platform"`

	// AffiliateLink is derived on every read of the research snapshot and is
	// normally absent from what gets stored.
	AffiliateLink string `json:"affiliateLink,omitempty"`

	// Commission figures are informational only.
	TotalCommission   *float64 `json:"totalCommission,omitempty"`
	PartnerCommission *float64 `json:"partnerCommission,omitempty"`
}

// EffectiveLink returns the link a visitor should be sent to.
func (p Product) EffectiveLink() string {
	if p.AffiliateLink != "" {
		return p.AffiliateLink
	}
	return p.Link
}

// ResearchResult is the cached snapshot of the last product-trend fetch.
type ResearchResult struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Items       []Product `json:"items"`
}
