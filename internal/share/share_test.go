package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allmarket/internal/domain"
)

func TestWhatsApp(t *testing.T) {
	p := domain.Product{
		Name:          "Fone Bluetooth",
		Description:   "Som limpo e bateria longa.",
		Link:          "https://shop/fone",
		AffiliateLink: "https://aff/fone",
	}

	post := WhatsApp(p)
	assert.Equal(t, ChannelWhatsApp, post.Channel)
	assert.Contains(t, post.Text, "*OFERTA EXCLUSIVA: FONE BLUETOOTH*")
	assert.Contains(t, post.Text, "Som limpo e bateria longa.")
	assert.Contains(t, post.Text, "👉 https://aff/fone")
	assert.NotContains(t, post.Text, "https://shop/fone")
}

func TestTelegram_FallsBackToMerchantLink(t *testing.T) {
	p := domain.Product{Name: "Panela", Niche: "Casa", Description: "Cozinha rápida", Link: "https://shop/panela"}

	post := Telegram(p)
	assert.Equal(t, ChannelTelegram, post.Channel)
	assert.Contains(t, post.Text, "**Produto:** Panela")
	assert.Contains(t, post.Text, "**Nicho:** Casa")
	assert.Contains(t, post.Text, "__Cozinha rápida__")
	assert.Contains(t, post.Text, "(https://shop/panela)")
}

func TestAll(t *testing.T) {
	posts := All(domain.Product{Name: "X", Link: "https://x"})
	require.Len(t, posts, 2)
	assert.Equal(t, ChannelWhatsApp, posts[0].Channel)
	assert.Equal(t, ChannelTelegram, posts[1].Channel)
}
