// Package mailer delivers the unlocked product link to a captured lead.
package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/resendlabs/resend-go"
	"github.com/sirupsen/logrus"

	"allmarket/internal/domain"
)

// Mailer sends the post-quiz email.
type Mailer interface {
	SendProductLink(ctx context.Context, lead domain.Lead, product domain.Product) error
}

// Noop discards every message. Used when no email provider is configured.
type Noop struct{}

func (Noop) SendProductLink(context.Context, domain.Lead, domain.Product) error { return nil }

// emailSender is the part of the resend client used here.
type emailSender interface {
	Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error)
}

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	emails    emailSender
	fromEmail string
	fromName  string
	log       logrus.FieldLogger
}

// NewResendMailer creates a Resend-backed mailer.
func NewResendMailer(apiKey, fromEmail, fromName string, logger logrus.FieldLogger) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if fromEmail == "" {
		fromEmail = "noreply@allmarket.com.br"
	}
	if fromName == "" {
		fromName = "All Market Brasil"
	}
	client := resend.NewClient(apiKey)
	return &ResendMailer{
		emails:    client.Emails,
		fromEmail: fromEmail,
		fromName:  fromName,
		log:       logger.WithField("component", "mailer"),
	}, nil
}

// SendProductLink emails the lead the product's effective link.
func (m *ResendMailer) SendProductLink(ctx context.Context, lead domain.Lead, product domain.Product) error {
	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail),
		To:      []string{lead.Email},
		Subject: "Seu link VIP: " + product.Name,
		Html:    productLinkHTML(product),
	}

	sent, err := m.emails.Send(req)
	if err != nil {
		return fmt.Errorf("failed to send product link email: %w", err)
	}
	m.log.WithFields(logrus.Fields{
		"lead_id":    lead.ID,
		"product_id": product.ID,
		"message_id": sent.Id,
	}).Info("Product link email sent")
	return nil
}

func productLinkHTML(p domain.Product) string {
	link := html.EscapeString(p.EffectiveLink())
	return fmt.Sprintf(
		`<h2>Acesso VIP liberado!</h2><p>Seu perfil foi qualificado para a oferta de <strong>%s</strong>.</p><p><a href="%s">Acessar oferta</a></p>`,
		html.EscapeString(p.Name), link,
	)
}
