package handler

import (
	"github.com/gin-gonic/gin"

	alertapp "github.com/sellerdesk/panel/internal/application/alerting"
)

// AlertHandler drives the order-alert decision flow over HTTP. There is
// deliberately no close or dismiss route: the only way out of an open
// alert is a decision.
type AlertHandler struct {
	BaseHandler
	gate *alertapp.AlertGate
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(gate *alertapp.AlertGate) *AlertHandler {
	return &AlertHandler{gate: gate}
}

// ConfirmRejectRequest carries the mandatory rejection reason.
type ConfirmRejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Current returns the gate snapshot the client should render.
func (h *AlertHandler) Current(c *gin.Context) {
	h.Success(c, h.gate.Snapshot())
}

// Accept submits an accept decision for the open alert.
func (h *AlertHandler) Accept(c *gin.Context) {
	if err := h.gate.ChooseAccept(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.gate.Snapshot())
}

// Reject moves the open alert into the reject-reason sub-state.
func (h *AlertHandler) Reject(c *gin.Context) {
	if err := h.gate.ChooseReject(); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.gate.Snapshot())
}

// CancelReject discards the pending reason and returns to the decision.
func (h *AlertHandler) CancelReject(c *gin.Context) {
	if err := h.gate.CancelReject(); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.gate.Snapshot())
}

// ConfirmReject submits the rejection with its reason.
func (h *AlertHandler) ConfirmReject(c *gin.Context) {
	var req ConfirmRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A rejection reason is required")
		return
	}
	if err := h.gate.ConfirmReject(c.Request.Context(), req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.gate.Snapshot())
}
