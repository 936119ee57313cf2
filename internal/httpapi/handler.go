// Package httpapi serves the storefront, the quiz and the operator routes
// over HTTP.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"allmarket/internal/capture"
	"allmarket/internal/domain"
	"allmarket/internal/gateway"
	"allmarket/internal/leadstore"
	"allmarket/internal/research"
	"allmarket/internal/share"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store    *leadstore.Store
	research *research.Service
	capture  *capture.Service
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(store *leadstore.Store, rs *research.Service, cs *capture.Service, logger logrus.FieldLogger) *Handler {
	return &Handler{
		store:    store,
		research: rs,
		capture:  cs,
		log:      logger.WithField("component", "http_handler"),
		now:      time.Now,
	}
}

type analysisRequest struct {
	Niche string `json:"niche"`
}

// settingsRequest is a whole settings record; both fields must be present.
type settingsRequest struct {
	GlobalAffiliatePrefix *string `json:"globalAffiliatePrefix"`
	AutoApplyPrefix       *bool   `json:"autoApplyPrefix"`
}

type linkRequest struct {
	Link string `json:"link" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "allmarket",
	})
}

// ListProducts returns the cached snapshot, fetching one if none exists.
func (h *Handler) ListProducts(c *gin.Context) {
	result, err := h.research.Load(c.Request.Context(), false)
	if err != nil {
		h.researchError(c, err)
		return
	}
	result.Items = research.Search(result.Items, c.Query("q"))
	c.JSON(http.StatusOK, result)
}

// SyncProducts forces a fresh fetch.
func (h *Handler) SyncProducts(c *gin.Context) {
	result, err := h.research.Load(c.Request.Context(), true)
	if err != nil {
		h.researchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) researchError(c *gin.Context, err error) {
	if errors.Is(err, research.ErrNoProducts) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no products available yet"})
		return
	}
	h.log.WithError(err).Error("Failed to load research")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
}

// ShareProduct returns the ready-made social posts for one product.
func (h *Handler) ShareProduct(c *gin.Context) {
	id := c.Param("id")
	product, ok := h.store.GetProduct(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"productId": product.ID,
		"posts":     share.All(product),
	})
}

// SubmitLead records a quiz completion.
func (h *Handler) SubmitLead(c *gin.Context) {
	var sub capture.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	receipt, err := h.capture.Submit(c.Request.Context(), sub)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, receipt)
	case errors.Is(err, capture.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, capture.ErrConsentRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, capture.ErrUnknownProduct):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).Error("Failed to record lead")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record lead"})
	}
}

// AnalyzeNiche asks the model for a market analysis.
func (h *Handler) AnalyzeNiche(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	analysis, err := h.research.Analyze(c.Request.Context(), req.Niche)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, analysis)
	case errors.Is(err, gateway.ErrEmptyNiche):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).WithField("niche", req.Niche).Warn("Niche analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis failed, try again"})
	}
}

// ListLeads returns every captured lead in capture order.
func (h *Handler) ListLeads(c *gin.Context) {
	leads := h.store.GetLeads(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count": len(leads),
		"leads": leads,
	})
}

// ExportLeads downloads the leads as CSV.
func (h *Handler) ExportLeads(c *gin.Context) {
	leads := h.store.GetLeads(c.Request.Context())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, leadstore.CSVFileName(h.now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(leadstore.ExportLeadsToCSV(leads)))
}

// GetSettings returns the affiliate settings.
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetSettings(c.Request.Context()))
}

// UpdateSettings replaces the affiliate settings. Partial bodies are
// rejected.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.GlobalAffiliatePrefix == nil || req.AutoApplyPrefix == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "globalAffiliatePrefix and autoApplyPrefix are both required"})
		return
	}

	settings := domain.AppSettings{
		GlobalAffiliatePrefix: *req.GlobalAffiliatePrefix,
		AutoApplyPrefix:       *req.AutoApplyPrefix,
	}
	if err := h.store.SaveSettings(c.Request.Context(), settings); err != nil {
		h.log.WithError(err).Error("Failed to save settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SetProductLink stores an operator override for one product. The override
// is kept even when the product is not in the current snapshot.
func (h *Handler) SetProductLink(c *gin.Context) {
	id := c.Param("id")
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link is required"})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.SaveCustomLink(ctx, id, req.Link); err != nil {
		h.log.WithError(err).WithField("product_id", id).Error("Failed to save custom link")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save link"})
		return
	}

	if product, ok := h.store.GetProduct(ctx, id); ok {
		c.JSON(http.StatusOK, product)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "link": req.Link})
}
