package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/printworks/backend/internal/application/checkout"
	"github.com/printworks/backend/internal/domain/cart"
)

// CartHandler exposes the session's cart.
type CartHandler struct {
	BaseHandler
	carts      cart.Service
	reconciler *checkout.Reconciler
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts cart.Service, reconciler *checkout.Reconciler) *CartHandler {
	return &CartHandler{carts: carts, reconciler: reconciler}
}

// Get returns the session's cart lines plus the in-memory view
// GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	snapshot, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.reconciler.ApplySnapshot(sessionID, snapshot)

	h.Success(c, gin.H{
		"lines": snapshot.Lines,
		"view":  h.reconciler.View(sessionID),
	})
}
