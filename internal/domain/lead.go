package domain

import "time"

// Lead is a contact captured when a visitor completes the quiz and consents.
// Product fields are a snapshot taken at capture time.
type Lead struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Niche       string    `json:"niche"`
	Profile     string    `json:"profile,omitempty"`
	ConsentedAt time.Time `json:"consentedAt"`
}
