package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	panelapp "github.com/sellerdesk/panel/internal/application/panel"
	"github.com/sellerdesk/panel/internal/domain/panel"
	"github.com/sellerdesk/panel/internal/interfaces/http/dto"
)

// SettingsHandler exposes the store profile.
type SettingsHandler struct {
	BaseHandler
	settings *panelapp.SettingsService
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings *panelapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the store profile.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// Update stores the store profile.
func (h *SettingsHandler) Update(c *gin.Context) {
	var settings panel.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid settings payload")
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), &settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}
