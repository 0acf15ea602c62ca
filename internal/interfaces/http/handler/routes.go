package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes registers configurator routes
func (h *ConfiguratorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quote", h.Quote)
	rg.POST("/cart/items", h.Commit)
}

// RegisterRoutes registers session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/session", h.SaveToken)
	rg.POST("/session/mount-check", h.MountCheck)
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.Get)
}
