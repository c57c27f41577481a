package panelapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/panel"
)

// WithdrawalBackend is the slice of the upstream client the withdrawal service needs.
type WithdrawalBackend interface {
	ListWithdrawals(ctx context.Context, page, pageSize int) ([]panel.Withdrawal, error)
	CreateWithdrawal(ctx context.Context, w *panel.Withdrawal) (*panel.Withdrawal, error)
}

// WithdrawalService exposes the seller's withdrawal requests. Minimum
// amounts and balance checks live upstream; their verdicts pass through.
type WithdrawalService struct {
	backend WithdrawalBackend
	logger  *zap.Logger
}

// NewWithdrawalService creates a WithdrawalService.
func NewWithdrawalService(backend WithdrawalBackend, logger *zap.Logger) *WithdrawalService {
	return &WithdrawalService{backend: backend, logger: logger}
}

// List returns one page of the seller's withdrawal requests.
func (s *WithdrawalService) List(ctx context.Context, page, pageSize int) ([]panel.Withdrawal, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.backend.ListWithdrawals(ctx, page, pageSize)
}

// Create validates and submits a withdrawal request.
func (s *WithdrawalService) Create(ctx context.Context, w *panel.Withdrawal) (*panel.Withdrawal, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	created, err := s.backend.CreateWithdrawal(ctx, w)
	if err != nil {
		return nil, err
	}
	s.logger.Info("withdrawal requested",
		zap.String("withdrawal_id", created.ID),
		zap.String("amount", created.Amount.String()),
	)
	return created, nil
}
