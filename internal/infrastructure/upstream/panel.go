package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sellerdesk/panel/internal/domain/panel"
)

// ListProductsResult is one page of the seller's products.
type ListProductsResult struct {
	Products []panel.Product `json:"products"`
	Total    int64           `json:"total"`
}

// ListProducts returns a page of the seller's products.
func (c *Client) ListProducts(ctx context.Context, page, pageSize int, search string) (*ListProductsResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if search != "" {
		q.Set("search", search)
	}

	var out ListProductsResult
	if err := c.getJSON(ctx, "/api/v1/seller/products", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*panel.Product, error) {
	var out panel.Product
	if err := c.getJSON(ctx, "/api/v1/seller/products/"+productID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a product and returns the stored projection.
func (c *Client) CreateProduct(ctx context.Context, p *panel.Product) (*panel.Product, error) {
	var out panel.Product
	if err := c.postJSON(ctx, "/api/v1/seller/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct updates a product and returns the stored projection.
func (c *Client) UpdateProduct(ctx context.Context, p *panel.Product) (*panel.Product, error) {
	var out panel.Product
	if err := c.putJSON(ctx, "/api/v1/seller/products/"+p.ID, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTicketCategories returns the selectable support-ticket categories.
func (c *Client) ListTicketCategories(ctx context.Context) ([]panel.TicketCategory, error) {
	var out []panel.TicketCategory
	if err := c.getJSON(ctx, "/api/v1/seller/ticket-categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTickets returns the seller's support tickets, newest first.
func (c *Client) ListTickets(ctx context.Context, page, pageSize int) ([]panel.Ticket, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out []panel.Ticket
	if err := c.getJSON(ctx, "/api/v1/seller/tickets", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTicket opens a support ticket.
func (c *Client) CreateTicket(ctx context.Context, t *panel.Ticket) (*panel.Ticket, error) {
	var out panel.Ticket
	if err := c.postJSON(ctx, "/api/v1/seller/tickets", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSettings fetches the store profile.
func (c *Client) GetSettings(ctx context.Context) (*panel.Settings, error) {
	var out panel.Settings
	if err := c.getJSON(ctx, "/api/v1/seller/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings stores the store profile.
func (c *Client) UpdateSettings(ctx context.Context, s *panel.Settings) (*panel.Settings, error) {
	var out panel.Settings
	if err := c.putJSON(ctx, "/api/v1/seller/settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWithdrawals returns the seller's withdrawal requests.
func (c *Client) ListWithdrawals(ctx context.Context, page, pageSize int) ([]panel.Withdrawal, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out []panel.Withdrawal
	if err := c.getJSON(ctx, "/api/v1/seller/withdrawals", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWithdrawal submits a withdrawal request. Minimum-amount and
// balance rules live upstream; their rejection messages are surfaced
// verbatim.
func (c *Client) CreateWithdrawal(ctx context.Context, w *panel.Withdrawal) (*panel.Withdrawal, error) {
	var out panel.Withdrawal
	if err := c.postJSON(ctx, "/api/v1/seller/withdrawals", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
