package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/printworks/backend/internal/application/checkout"
	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/domain/shared"
)

// SessionHandler receives the auth collaborator's token callback and the
// page-load mount check. Saving a token both persists it (feeding the
// cross-context watch) and raises the in-process token-acquired signal.
type SessionHandler struct {
	BaseHandler
	tokens   cart.TokenStore
	triggers *checkout.Triggers
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(tokens cart.TokenStore, triggers *checkout.Triggers, events shared.EventPublisher, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		tokens:   tokens,
		triggers: triggers,
		events:   events,
		logger:   logger,
	}
}

// TokenRequest is the request body for the token callback
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// SaveToken records a newly acquired auth token for the session
// POST /api/v1/auth/session
func (h *SessionHandler) SaveToken(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.tokens.Save(ctx, sessionID, req.Token); err != nil {
		h.HandleError(c, err)
		return
	}

	// In-process signal; the subscribed trigger replays any staged
	// operation for this session.
	if err := h.events.Publish(ctx, cart.NewTokenAcquiredEvent(sessionID)); err != nil {
		h.logger.Error("failed to publish token-acquired event",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	h.Success(c, gin.H{"session_id": sessionID})
}

// MountCheck is the page-load trigger: processes the session's staged
// operation when both a token and a staged record exist
// POST /api/v1/session/mount-check
func (h *SessionHandler) MountCheck(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.triggers.CheckOnMount(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
