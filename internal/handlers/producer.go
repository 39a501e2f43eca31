// Package handlers exposes each role's core operations over HTTP. The
// endpoints are the presentation surface: button actions of the original
// desktop forms become POSTs, rendered state becomes GETs.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrewp05/ecommerce-fabric/internal/domain"
	"github.com/andrewp05/ecommerce-fabric/internal/feed"
	"github.com/andrewp05/ecommerce-fabric/internal/publisher"
)

type ProducerHandler struct {
	publisher *publisher.EventPublisher
	log       *feed.Feed
}

func NewProducerHandler(pub *publisher.EventPublisher, log *feed.Feed) *ProducerHandler {
	return &ProducerHandler{publisher: pub, log: log}
}

// HealthCheck returns server status
func (h *ProducerHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "producer"})
}

// PublishProduct publishes a product listing
func (h *ProducerHandler) PublishProduct(c *gin.Context) {
	var req domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.publisher.PublishListing(req); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// PublishOffer broadcasts a free-text offer
func (h *ProducerHandler) PublishOffer(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.publisher.PublishOffer(req.Text); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"text": req.Text})
}

// GetVocabulary returns the category and section choices the publish form
// offers. The core accepts any value; these are the defaults.
func (h *ProducerHandler) GetVocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": domain.Categories, "sections": domain.Sections})
}

// GetLog returns the activity feed
func (h *ProducerHandler) GetLog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lines": h.log.Lines()})
}

// statusFor maps the core error taxonomy to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
