package alerting

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DecisionAction is the seller's verdict on a newly arrived order.
// The wire encoding (1 = accept, 2 = reject) is fixed by the upstream
// order-decision endpoint.
type DecisionAction int

const (
	ActionAccept DecisionAction = 1
	ActionReject DecisionAction = 2
)

// String returns a human-readable name for logging.
func (a DecisionAction) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Decision is the seller's resolution of one surfaced order. It is
// ephemeral: constructed on seller input, submitted once, then discarded.
type Decision struct {
	OrderID string
	Action  DecisionAction
	Reason  string
}

// Validate enforces the decision invariants: a known action, a target
// order, and a non-empty reason when rejecting.
func (d Decision) Validate() error {
	if d.OrderID == "" {
		return ErrOrderIDRequired
	}
	switch d.Action {
	case ActionAccept:
		return nil
	case ActionReject:
		if strings.TrimSpace(d.Reason) == "" {
			return ErrReasonRequired
		}
		return nil
	default:
		return ErrInvalidAction
	}
}

// OrderLine is a single line item on an order, already normalized from
// the upstream payload.
type OrderLine struct {
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderDetail is the read-only projection of an order fetched for
// display while the seller decides. The upstream payload is inconsistent
// about field names; normalization happens once at the client boundary,
// so this shape is the only one the alert gate ever sees.
type OrderDetail struct {
	OrderID      string          `json:"order_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	Note         string          `json:"note,omitempty"`
	Lines        []OrderLine     `json:"lines"`
	Total        decimal.Decimal `json:"total"`
}
