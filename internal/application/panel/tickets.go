package panelapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/panel"
)

// TicketBackend is the slice of the upstream client the ticket service needs.
type TicketBackend interface {
	ListTicketCategories(ctx context.Context) ([]panel.TicketCategory, error)
	ListTickets(ctx context.Context, page, pageSize int) ([]panel.Ticket, error)
	CreateTicket(ctx context.Context, t *panel.Ticket) (*panel.Ticket, error)
}

// TicketService exposes the seller's support tickets.
type TicketService struct {
	backend TicketBackend
	logger  *zap.Logger
}

// NewTicketService creates a TicketService.
func NewTicketService(backend TicketBackend, logger *zap.Logger) *TicketService {
	return &TicketService{backend: backend, logger: logger}
}

// Categories returns the selectable ticket categories.
func (s *TicketService) Categories(ctx context.Context) ([]panel.TicketCategory, error) {
	return s.backend.ListTicketCategories(ctx)
}

// List returns one page of the seller's tickets.
func (s *TicketService) List(ctx context.Context, page, pageSize int) ([]panel.Ticket, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.backend.ListTickets(ctx, page, pageSize)
}

// Create validates and opens a new ticket.
func (s *TicketService) Create(ctx context.Context, t *panel.Ticket) (*panel.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	created, err := s.backend.CreateTicket(ctx, t)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ticket created",
		zap.String("ticket_id", created.ID),
		zap.String("category_id", created.CategoryID),
	)
	return created, nil
}
