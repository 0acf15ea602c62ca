package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/printworks/backend/internal/application/checkout"
)

// ConfiguratorHandler exposes pricing quotes and cart commit attempts for
// configured print products.
type ConfiguratorHandler struct {
	BaseHandler
	quoter *checkout.Quoter
	stager *checkout.Stager
}

// NewConfiguratorHandler creates a new ConfiguratorHandler
func NewConfiguratorHandler(quoter *checkout.Quoter, stager *checkout.Stager) *ConfiguratorHandler {
	return &ConfiguratorHandler{quoter: quoter, stager: stager}
}

// QuoteRequest is the request body for pricing a configuration
type QuoteRequest struct {
	ProductID    int64             `json:"product_id" binding:"required,gt=0"`
	Selection    map[string]string `json:"selection" binding:"required,min=1"`
	Binding      string            `json:"binding,omitempty"`
	Addons       []string          `json:"addons,omitempty"`
	Copies       int64             `json:"copies,omitempty" binding:"omitempty,gt=0"`
	DocumentRefs []int64           `json:"document_refs,omitempty"`
}

func (r QuoteRequest) toApplication() checkout.QuoteRequest {
	return checkout.QuoteRequest{
		ProductID:    r.ProductID,
		Selection:    r.Selection,
		Binding:      r.Binding,
		Addons:       r.Addons,
		Copies:       r.Copies,
		DocumentRefs: r.DocumentRefs,
	}
}

// Quote prices a configuration without touching the cart
// POST /api/v1/quote
func (h *ConfiguratorHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.quoter.Quote(c.Request.Context(), req.toApplication())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Commit attempts to add the configuration to the cart. Unauthenticated
// buyers get the operation staged and a "staged" status back.
// POST /api/v1/cart/items
func (h *ConfiguratorHandler) Commit(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.stager.Commit(c.Request.Context(), sessionID, req.toApplication())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Status == checkout.CommitStatusCommitted {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}
