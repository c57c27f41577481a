package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	panelapp "github.com/sellerdesk/panel/internal/application/panel"
	"github.com/sellerdesk/panel/internal/domain/panel"
	"github.com/sellerdesk/panel/internal/interfaces/http/dto"
)

// TicketHandler exposes the seller's support tickets.
type TicketHandler struct {
	BaseHandler
	tickets *panelapp.TicketService
}

// NewTicketHandler creates a TicketHandler.
func NewTicketHandler(tickets *panelapp.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Categories returns the selectable ticket categories.
func (h *TicketHandler) Categories(c *gin.Context) {
	categories, err := h.tickets.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// List returns one page of the seller's tickets.
func (h *TicketHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	tickets, err := h.tickets.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// Create opens a new support ticket.
func (h *TicketHandler) Create(c *gin.Context) {
	var ticket panel.Ticket
	if err := c.ShouldBindJSON(&ticket); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid ticket payload")
		return
	}

	created, err := h.tickets.Create(c.Request.Context(), &ticket)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}
