// Package share renders ready-to-post promotional messages for a product.
package share

import (
	"fmt"
	"strings"

	"allmarket/internal/domain"
)

// Channels a post can be rendered for.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"
)

// Post is one rendered message.
type Post struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// WhatsApp renders the WhatsApp post, using WhatsApp's *bold* markup.
func WhatsApp(p domain.Product) Post {
	text := fmt.Sprintf(`🛍️ *OFERTA EXCLUSIVA: %s* 🛍️

%s

✅ Visto no Shopping All Market Brasil
🔥 Garanta o seu pelo link oficial abaixo:
👉 %s

#AllMarketBrasil #OfertaDoDia`, strings.ToUpper(p.Name), p.Description, p.EffectiveLink())
	return Post{Channel: ChannelWhatsApp, Text: text}
}

// Telegram renders the Telegram post in Markdown.
func Telegram(p domain.Product) Post {
	text := fmt.Sprintf(`🔥 **OPORTUNIDADE DETECTADA NO ALL MARKET** 🔥

📦 **Produto:** %s
💡 **Nicho:** %s

🚀 __%s__

🛒 **COMPRE COM SEGURANÇA AQUI:**
[ACESSAR OFERTA NO ALL MARKET](%s)

---
#Promoção #AllMarketBrasil`, p.Name, p.Niche, p.Description, p.EffectiveLink())
	return Post{Channel: ChannelTelegram, Text: text}
}

// All renders every channel.
func All(p domain.Product) []Post {
	return []Post{WhatsApp(p), Telegram(p)}
}
