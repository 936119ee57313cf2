package domain

import "time"

// MarketAnalysis is the AI gateway's structured report on a niche.
type MarketAnalysis struct {
	ID                 string    `json:"id"`
	Niche              string    `json:"niche"`
	TargetAudience     []string  `json:"targetAudience"`
	PainPoints         []string  `json:"painPoints"`
	MarketingAngles    []string  `json:"marketingAngles"`
	CompetitorStrategy string    `json:"competitorStrategy"`
	CreatedAt          time.Time `json:"createdAt"`
}
