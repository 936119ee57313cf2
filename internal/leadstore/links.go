package leadstore

import (
	"net/url"
	"strings"

	"allmarket/internal/domain"
)

// ResolveLink picks the link a visitor is redirected to, in order: the
// operator override for p.ID, a link already carried by the product, the
// global prefix followed by the encoded merchant link (when auto-apply is on
// and a prefix is set), and finally the merchant link itself.
func ResolveLink(p domain.Product, overrides map[string]string, settings domain.AppSettings) string {
	if link := overrides[p.ID]; link != "" {
		return link
	}
	if p.AffiliateLink != "" {
		return p.AffiliateLink
	}
	if settings.AutoApplyPrefix && settings.GlobalAffiliatePrefix != "" {
		return settings.GlobalAffiliatePrefix + EncodeURIComponent(p.Link)
	}
	return p.Link
}

// uriComponentUnescaped are the marks that URI-component encoding leaves
// alone but url.QueryEscape does not.
var uriComponentUnescaped = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	return uriComponentUnescaped.Replace(url.QueryEscape(s))
}
