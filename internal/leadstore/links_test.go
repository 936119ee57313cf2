package leadstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"allmarket/internal/domain"
)

func TestResolveLink(t *testing.T) {
	product := domain.Product{ID: "prod-0-1", Link: "https://shop.example/p?a=1&b=2"}
	withOwn := product
	withOwn.AffiliateLink = "https://carried.example"

	prefix := domain.AppSettings{GlobalAffiliatePrefix: "X", AutoApplyPrefix: true}

	tests := []struct {
		name      string
		product   domain.Product
		overrides map[string]string
		settings  domain.AppSettings
		want      string
	}{
		{
			name:      "override wins regardless of settings",
			product:   withOwn,
			overrides: map[string]string{"prod-0-1": "https://manual"},
			settings:  prefix,
			want:      "https://manual",
		},
		{
			name:      "override wins with auto-apply off",
			product:   product,
			overrides: map[string]string{"prod-0-1": "https://manual"},
			settings:  domain.AppSettings{AutoApplyPrefix: false},
			want:      "https://manual",
		},
		{
			name:      "empty override is ignored",
			product:   product,
			overrides: map[string]string{"prod-0-1": ""},
			settings:  domain.AppSettings{},
			want:      product.Link,
		},
		{
			name:     "carried affiliate link beats the prefix rule",
			product:  withOwn,
			settings: prefix,
			want:     "https://carried.example",
		},
		{
			name:     "auto-apply off falls back to link",
			product:  product,
			settings: domain.AppSettings{GlobalAffiliatePrefix: "X", AutoApplyPrefix: false},
			want:     product.Link,
		},
		{
			name:     "empty prefix falls back to link",
			product:  product,
			settings: domain.DefaultSettings(),
			want:     product.Link,
		},
		{
			name:     "prefix plus encoded link",
			product:  product,
			settings: prefix,
			want:     "Xhttps%3A%2F%2Fshop.example%2Fp%3Fa%3D1%26b%3D2",
		},
		{
			name:      "override for another product does not apply",
			product:   product,
			overrides: map[string]string{"prod-9-1": "https://other"},
			settings:  prefix,
			want:      "Xhttps%3A%2F%2Fshop.example%2Fp%3Fa%3D1%26b%3D2",
		},
		{
			name:     "nil overrides",
			product:  product,
			settings: domain.AppSettings{},
			want:     product.Link,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLink(tt.product, tt.overrides, tt.settings)
			assert.Equal(t, tt.want, got)
			// Same inputs, same answer.
			assert.Equal(t, got, ResolveLink(tt.product, tt.overrides, tt.settings))
		})
	}
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"https://a.b/c?d=e&f=g": "https%3A%2F%2Fa.b%2Fc%3Fd%3De%26f%3Dg",
		"hello world":           "hello%20world",
		"a+b":                   "a%2Bb",
		"keep-_.!~*'()":         "keep-_.!~*'()",
		"café":                  "caf%C3%A9",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, EncodeURIComponent(in), "input %q", in)
	}
}
