package mailer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/resendlabs/resend-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allmarket/internal/domain"
)

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return resend.SendEmailResponse{}, f.err
	}
	return resend.SendEmailResponse{Id: "msg-1"}, nil
}

func newTestMailer(sender emailSender) *ResendMailer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &ResendMailer{
		emails:    sender,
		fromEmail: "ofertas@allmarket.test",
		fromName:  "All Market",
		log:       logger,
	}
}

func TestNewResendMailer_RequiresKey(t *testing.T) {
	_, err := NewResendMailer("", "", "", logrus.New())
	assert.Error(t, err)
}

func TestResendMailer_SendProductLink(t *testing.T) {
	sender := &fakeSender{}
	m := newTestMailer(sender)

	lead := domain.Lead{ID: "L1", Email: "ana@example.com"}
	product := domain.Product{ID: "prod-0-1", Name: "Fone <Pro>", Link: "https://shop/fone", AffiliateLink: "https://aff/?u=1&v=2"}

	require.NoError(t, m.SendProductLink(context.Background(), lead, product))
	require.NotNil(t, sender.got)
	assert.Equal(t, "All Market <ofertas@allmarket.test>", sender.got.From)
	assert.Equal(t, []string{"ana@example.com"}, sender.got.To)
	assert.Contains(t, sender.got.Subject, "Fone <Pro>")
	assert.Contains(t, sender.got.Html, `href="https://aff/?u=1&amp;v=2"`)
	assert.Contains(t, sender.got.Html, "Fone &lt;Pro&gt;")
}

func TestResendMailer_SendFailure(t *testing.T) {
	boom := errors.New("rate limited")
	m := newTestMailer(&fakeSender{err: boom})

	err := m.SendProductLink(context.Background(), domain.Lead{Email: "a@b.com"}, domain.Product{Link: "https://x"})
	assert.ErrorIs(t, err, boom)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.SendProductLink(context.Background(), domain.Lead{}, domain.Product{}))
}
