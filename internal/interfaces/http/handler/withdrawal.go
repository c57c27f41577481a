package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	panelapp "github.com/sellerdesk/panel/internal/application/panel"
	"github.com/sellerdesk/panel/internal/domain/panel"
	"github.com/sellerdesk/panel/internal/interfaces/http/dto"
)

// WithdrawalHandler exposes the seller's withdrawal requests.
type WithdrawalHandler struct {
	BaseHandler
	withdrawals *panelapp.WithdrawalService
}

// NewWithdrawalHandler creates a WithdrawalHandler.
func NewWithdrawalHandler(withdrawals *panelapp.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// List returns one page of the seller's withdrawal requests.
func (h *WithdrawalHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	withdrawals, err := h.withdrawals.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, withdrawals)
}

// Create submits a withdrawal request.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var withdrawal panel.Withdrawal
	if err := c.ShouldBindJSON(&withdrawal); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid withdrawal payload")
		return
	}

	created, err := h.withdrawals.Create(c.Request.Context(), &withdrawal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}
