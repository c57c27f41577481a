// Package panelapp holds the thin pass-through services behind the
// panel's CRUD surfaces. Each service validates at the edge, forwards to
// the upstream backend and surfaces its answers unchanged.
package panelapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/panel"
	"github.com/sellerdesk/panel/internal/infrastructure/upstream"
)

// ProductBackend is the slice of the upstream client the product service needs.
type ProductBackend interface {
	ListProducts(ctx context.Context, page, pageSize int, search string) (*upstream.ListProductsResult, error)
	GetProduct(ctx context.Context, productID string) (*panel.Product, error)
	CreateProduct(ctx context.Context, p *panel.Product) (*panel.Product, error)
	UpdateProduct(ctx context.Context, p *panel.Product) (*panel.Product, error)
}

// ProductService exposes the seller's product catalogue.
type ProductService struct {
	backend ProductBackend
	logger  *zap.Logger
}

// NewProductService creates a ProductService.
func NewProductService(backend ProductBackend, logger *zap.Logger) *ProductService {
	return &ProductService{backend: backend, logger: logger}
}

// List returns one page of the seller's products.
func (s *ProductService) List(ctx context.Context, page, pageSize int, search string) (*upstream.ListProductsResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.backend.ListProducts(ctx, page, pageSize, search)
}

// Get fetches a single product.
func (s *ProductService) Get(ctx context.Context, productID string) (*panel.Product, error) {
	return s.backend.GetProduct(ctx, productID)
}

// Create validates and stores a new product.
func (s *ProductService) Create(ctx context.Context, p *panel.Product) (*panel.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	created, err := s.backend.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", created.ID))
	return created, nil
}

// Update validates and stores changes to an existing product.
func (s *ProductService) Update(ctx context.Context, p *panel.Product) (*panel.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.backend.UpdateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.String("product_id", updated.ID))
	return updated, nil
}
