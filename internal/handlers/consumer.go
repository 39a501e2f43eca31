package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrewp05/ecommerce-fabric/internal/catalog"
	"github.com/andrewp05/ecommerce-fabric/internal/feed"
	"github.com/andrewp05/ecommerce-fabric/internal/purchase"
)

type ConsumerHandler struct {
	projection  *catalog.Projection
	coordinator *purchase.Coordinator
	offers      *feed.Feed
	log         *feed.Feed
}

func NewConsumerHandler(projection *catalog.Projection, coordinator *purchase.Coordinator, offers, log *feed.Feed) *ConsumerHandler {
	return &ConsumerHandler{
		projection:  projection,
		coordinator: coordinator,
		offers:      offers,
		log:         log,
	}
}

// HealthCheck returns server status
func (h *ConsumerHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "consumer"})
}

// ListProducts returns the catalog projection in first-seen order
func (h *ConsumerHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.projection.Snapshot())
}

// GetProduct returns a single product with its current stock
func (h *ConsumerHandler) GetProduct(c *gin.Context) {
	name := c.Param("name")

	prod, stock, ok := h.projection.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, catalog.Entry{Product: prod, Stock: stock})
}

// CreatePurchase places a purchase through the coordinator
func (h *ConsumerHandler) CreatePurchase(c *gin.Context) {
	var req struct {
		Product  string `json:"product" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
		Customer string `json:"customer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.coordinator.Purchase(req.Product, req.Quantity, req.Customer)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ev)
}

// ListOffers returns the received broadcast offers
func (h *ConsumerHandler) ListOffers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"offers": h.offers.Lines()})
}

// GetLog returns the activity feed
func (h *ConsumerHandler) GetLog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lines": h.log.Lines()})
}
