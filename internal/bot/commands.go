package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"allmarket/internal/domain"
	"allmarket/internal/gateway"
	"allmarket/internal/leadstore"
	"allmarket/internal/research"
	"allmarket/internal/share"
)

const helpText = `All Market Brasil - painel do operador

/products - produtos em cache
/sync - buscar produtos em alta agora
/leads - total de leads e exportação CSV
/setlink <id> <url> - link de afiliado de um produto
/prefix <url|-> - prefixo global de afiliado (- limpa)
/autoapply on|off - aplicar o prefixo automaticamente
/settings - configuração atual
/share <id> - posts prontos para WhatsApp e Telegram
/analyze <nicho> - análise de mercado`

// document is a file attached to a reply.
type document struct {
	Name string
	Data []byte
}

// reply is everything the bot sends back for one command.
type reply struct {
	Messages []string
	Document *document
}

func text(format string, args ...any) reply {
	return reply{Messages: []string{fmt.Sprintf(format, args...)}}
}

// parseCommand splits "/cmd@botname args" into "/cmd" and the trimmed args.
func parseCommand(msg string) (cmd, args string) {
	msg = strings.TrimSpace(msg)
	cmd, args, _ = strings.Cut(msg, " ")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

// dispatch runs one operator command against the store and services.
func (h *Handler) dispatch(ctx context.Context, msg string) reply {
	cmd, args := parseCommand(msg)
	switch cmd {
	case "/start", "/help":
		return text(helpText)
	case "/products":
		return h.products(ctx, false)
	case "/sync":
		return h.products(ctx, true)
	case "/leads":
		return h.leads(ctx)
	case "/setlink":
		return h.setLink(ctx, args)
	case "/prefix":
		return h.setPrefix(ctx, args)
	case "/autoapply":
		return h.setAutoApply(ctx, args)
	case "/settings":
		return h.showSettings(ctx)
	case "/share":
		return h.share(ctx, args)
	case "/analyze":
		return h.analyze(ctx, args)
	default:
		return text("Comando desconhecido. Use /start para ver os comandos.")
	}
}

func (h *Handler) products(ctx context.Context, force bool) reply {
	result, err := h.research.Load(ctx, force)
	if errors.Is(err, research.ErrNoProducts) {
		return text("Nenhum produto disponível ainda. Tente /sync mais tarde.")
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to load products")
		return text("Falha ao carregar produtos.")
	}

	var b strings.Builder
	if force {
		fmt.Fprintf(&b, "Sincronizado: %d produtos\n", len(result.Items))
	} else {
		fmt.Fprintf(&b, "%d produtos (atualizado %s)\n", len(result.Items), result.LastUpdated.Format("02/01/2006 15:04"))
	}
	for _, p := range result.Items {
		fmt.Fprintf(&b, "\n%s\n%s [%s]\n%s\n", p.ID, p.Name, p.Niche, p.AffiliateLink)
	}
	return text("%s", strings.TrimRight(b.String(), "\n"))
}

func (h *Handler) leads(ctx context.Context) reply {
	leads := h.store.GetLeads(ctx)
	if len(leads) == 0 {
		return text("Nenhum lead capturado ainda.")
	}
	return reply{
		Messages: []string{fmt.Sprintf("%d leads capturados.", len(leads))},
		Document: &document{
			Name: leadstore.CSVFileName(h.now()),
			Data: []byte(leadstore.ExportLeadsToCSV(leads)),
		},
	}
}

func (h *Handler) setLink(ctx context.Context, args string) reply {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return text("Uso: /setlink <id> <url>")
	}
	id, link := fields[0], fields[1]
	if err := h.store.SaveCustomLink(ctx, id, link); err != nil {
		h.log.WithError(err).WithField("product_id", id).Error("Failed to save custom link")
		return text("Falha ao salvar o link.")
	}
	if p, ok := h.store.GetProduct(ctx, id); ok {
		return text("Link de %s atualizado:\n%s", p.Name, p.AffiliateLink)
	}
	return text("Link salvo para %s (produto fora do catálogo atual).", id)
}

func (h *Handler) setPrefix(ctx context.Context, args string) reply {
	if args == "" {
		return text("Uso: /prefix <url> ou /prefix - para limpar")
	}
	settings := h.store.GetSettings(ctx)
	settings.GlobalAffiliatePrefix = args
	if args == "-" {
		settings.GlobalAffiliatePrefix = ""
	}
	return h.saveSettings(ctx, settings)
}

func (h *Handler) setAutoApply(ctx context.Context, args string) reply {
	settings := h.store.GetSettings(ctx)
	switch strings.ToLower(args) {
	case "on":
		settings.AutoApplyPrefix = true
	case "off":
		settings.AutoApplyPrefix = false
	default:
		return text("Uso: /autoapply on|off")
	}
	return h.saveSettings(ctx, settings)
}

func (h *Handler) saveSettings(ctx context.Context, settings domain.AppSettings) reply {
	if err := h.store.SaveSettings(ctx, settings); err != nil {
		h.log.WithError(err).Error("Failed to save settings")
		return text("Falha ao salvar a configuração.")
	}
	return describeSettings(settings)
}

func (h *Handler) showSettings(ctx context.Context) reply {
	return describeSettings(h.store.GetSettings(ctx))
}

func describeSettings(s domain.AppSettings) reply {
	prefix := s.GlobalAffiliatePrefix
	if prefix == "" {
		prefix = "(vazio)"
	}
	auto := "off"
	if s.AutoApplyPrefix {
		auto = "on"
	}
	return text("Prefixo global: %s\nAplicar automaticamente: %s", prefix, auto)
}

func (h *Handler) share(ctx context.Context, args string) reply {
	if args == "" {
		return text("Uso: /share <id>")
	}
	p, ok := h.store.GetProduct(ctx, args)
	if !ok {
		return text("Produto %s não encontrado.", args)
	}
	posts := share.All(p)
	r := reply{Messages: make([]string, 0, len(posts))}
	for _, post := range posts {
		r.Messages = append(r.Messages, post.Text)
	}
	return r
}

func (h *Handler) analyze(ctx context.Context, niche string) reply {
	a, err := h.research.Analyze(ctx, niche)
	if errors.Is(err, gateway.ErrEmptyNiche) {
		return text("Uso: /analyze <nicho>")
	}
	if err != nil {
		h.log.WithError(err).WithField("niche", niche).Warn("Niche analysis failed")
		return text("Não foi possível analisar o nicho agora. Tente novamente.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Análise: %s\n", a.Niche)
	writeList(&b, "Público-alvo", a.TargetAudience)
	writeList(&b, "Dores", a.PainPoints)
	writeList(&b, "Ângulos de marketing", a.MarketingAngles)
	if a.CompetitorStrategy != "" {
		fmt.Fprintf(&b, "\nConcorrência:\n%s\n", a.CompetitorStrategy)
	}
	return text("%s", strings.TrimRight(b.String(), "\n"))
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
