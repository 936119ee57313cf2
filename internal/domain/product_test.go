package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_EffectiveLink(t *testing.T) {
	p := Product{Link: "https://shop.example/item"}
	assert.Equal(t, "https://shop.example/item", p.EffectiveLink(), "falls back to the merchant link")

	p.AffiliateLink = "https://aff.example/?u=item"
	assert.Equal(t, "https://aff.example/?u=item", p.EffectiveLink())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Empty(t, s.GlobalAffiliatePrefix)
	assert.True(t, s.AutoApplyPrefix)
}
