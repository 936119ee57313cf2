// Package capture turns a completed quiz into a stored lead and the link
// the visitor is sent to.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"allmarket/internal/domain"
	"allmarket/internal/leadstore"
	"allmarket/internal/mailer"
)

var (
	// ErrMissingField is returned when email or product id is blank.
	ErrMissingField = errors.New("missing required field")
	// ErrConsentRequired is returned when the visitor did not consent.
	ErrConsentRequired = errors.New("consent is required")
	// ErrUnknownProduct is returned when the product is not in the current snapshot.
	ErrUnknownProduct = errors.New("unknown product")
)

// Submission is what the quiz form posts. ProductName, Niche and Link echo
// the product the visitor was shown; they are used when ProductID is no
// longer in the cached snapshot.
type Submission struct {
	Email       string `json:"email"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Niche       string `json:"niche"`
	Link        string `json:"link"`
	Profile     string `json:"profile"`
	Consent     bool   `json:"consent"`
}

// Receipt tells the caller where to send the visitor.
type Receipt struct {
	LeadID      string `json:"leadId"`
	RedirectURL string `json:"redirectUrl"`
}

// Service records leads.
type Service struct {
	store  *leadstore.Store
	mailer mailer.Mailer
	log    logrus.FieldLogger
	now    func() time.Time
	newID  func() string
}

// NewService wires a capture service. A nil mailer sends nothing.
func NewService(store *leadstore.Store, m mailer.Mailer, logger logrus.FieldLogger) *Service {
	if m == nil {
		m = mailer.Noop{}
	}
	return &Service{
		store:  store,
		mailer: m,
		log:    logger.WithField("component", "capture"),
		now:    time.Now,
		newID:  func() string { return ulid.Make().String() },
	}
}

// shownProduct rebuilds the product from the submission itself, for quizzes
// started before the snapshot was replaced.
func (s *Service) shownProduct(ctx context.Context, productID string, sub Submission) (domain.Product, bool) {
	name := strings.TrimSpace(sub.ProductName)
	if name == "" {
		return domain.Product{}, false
	}
	s.log.WithField("product_id", productID).Info("Product not in snapshot, using submitted details")
	return s.store.Resolve(ctx, domain.Product{
		ID:    productID,
		Name:  name,
		Niche: strings.TrimSpace(sub.Niche),
		Link:  strings.TrimSpace(sub.Link),
	}), true
}

// Submit validates sub, stores the lead and returns the redirect link. The
// delivery email is best-effort.
func (s *Service) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	email := strings.TrimSpace(sub.Email)
	productID := strings.TrimSpace(sub.ProductID)
	switch {
	case email == "":
		return Receipt{}, fmt.Errorf("%w: email", ErrMissingField)
	case productID == "":
		return Receipt{}, fmt.Errorf("%w: productId", ErrMissingField)
	case !sub.Consent:
		return Receipt{}, ErrConsentRequired
	}

	product, ok := s.store.GetProduct(ctx, productID)
	if !ok {
		product, ok = s.shownProduct(ctx, productID, sub)
		if !ok {
			return Receipt{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
		}
	}

	lead := domain.Lead{
		ID:          s.newID(),
		Email:       email,
		ProductID:   product.ID,
		ProductName: product.Name,
		Niche:       product.Niche,
		Profile:     strings.TrimSpace(sub.Profile),
		ConsentedAt: s.now().UTC(),
	}
	if err := s.store.SaveLead(ctx, lead); err != nil {
		return Receipt{}, fmt.Errorf("failed to save lead: %w", err)
	}

	if err := s.mailer.SendProductLink(ctx, lead, product); err != nil {
		s.log.WithError(err).WithField("lead_id", lead.ID).Warn("Product link email not sent")
	}

	return Receipt{LeadID: lead.ID, RedirectURL: product.EffectiveLink()}, nil
}
