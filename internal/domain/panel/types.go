// Package panel holds the read/write projections for the plain CRUD
// surfaces of the seller panel: products, support tickets, store
// settings and withdrawal requests. All of them live upstream; the panel
// validates at the edge and passes through.
package panel

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the sale status of a product upstream.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusOnSale   ProductStatus = "on_sale"
	ProductStatusOffShelf ProductStatus = "off_shelf"
)

// ProductVariant is one sellable variant of a product.
type ProductVariant struct {
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Product is the seller-facing product projection.
type Product struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock"`
	Status      ProductStatus    `json:"status"`
	ImageURLs   []string         `json:"image_urls,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at,omitempty"`
}

// TicketCategory is one selectable support-ticket category.
type TicketCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TicketStatus is the lifecycle status of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusAnswered TicketStatus = "answered"
	TicketStatusClosed   TicketStatus = "closed"
)

// Ticket is a seller support ticket.
type Ticket struct {
	ID         string       `json:"id,omitempty"`
	CategoryID string       `json:"category_id"`
	Subject    string       `json:"subject"`
	Body       string       `json:"body"`
	Status     TicketStatus `json:"status,omitempty"`
	CreatedAt  time.Time    `json:"created_at,omitempty"`
}

// Settings is the seller's store profile. PollIntervalSeconds lets the
// seller slow the notification poll within the bounds enforced by the
// alert configuration.
type Settings struct {
	StoreName           string `json:"store_name"`
	ContactPhone        string `json:"contact_phone,omitempty"`
	ContactEmail        string `json:"contact_email,omitempty"`
	AlarmEnabled        bool   `json:"alarm_enabled"`
	PollIntervalSeconds int    `json:"poll_interval_seconds,omitempty"`
}

// WithdrawalStatus is the processing status of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
	WithdrawalStatusPaid     WithdrawalStatus = "paid"
)

// Withdrawal is a seller withdrawal request.
type Withdrawal struct {
	ID          string           `json:"id,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Status      WithdrawalStatus `json:"status,omitempty"`
	Note        string           `json:"note,omitempty"`
	RequestedAt time.Time        `json:"requested_at,omitempty"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`
}
