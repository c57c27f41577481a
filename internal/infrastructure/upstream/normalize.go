package upstream

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/panel/internal/domain/alerting"
)

// The order endpoint predates a backend field-name cleanup, so the same
// value can arrive under several keys depending on which service
// produced the order. rawOrder declares every candidate and normalize
// coalesces them into the one canonical OrderDetail shape; nothing past
// this file deals with the variance.

type rawOrder struct {
	OrderID string `json:"order_id"`
	ID      string `json:"id"`

	CustomerName string `json:"customer_name"`
	ReceiverName string `json:"receiver_name"`
	Name         string `json:"name"`

	Phone         string `json:"phone"`
	Mobile        string `json:"mobile"`
	ReceiverPhone string `json:"receiver_phone"`

	Address         string `json:"address"`
	ReceiverAddress string `json:"receiver_address"`

	Note         string `json:"note"`
	BuyerMessage string `json:"buyer_message"`

	Total       decimal.Decimal `json:"total"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Amount      decimal.Decimal `json:"amount"`

	Items      []rawOrderLine `json:"items"`
	Lines      []rawOrderLine `json:"lines"`
	OrderItems []rawOrderLine `json:"order_items"`
}

type rawOrderLine struct {
	ProductName string `json:"product_name"`
	Title       string `json:"title"`
	Name        string `json:"name"`

	VariantName string `json:"variant_name"`
	SkuName     string `json:"sku_name"`

	Quantity int `json:"quantity"`
	Qty      int `json:"qty"`
	Num      int `json:"num"`

	UnitPrice decimal.Decimal `json:"unit_price"`
	Price     decimal.Decimal `json:"price"`
}

// normalize coalesces the candidate keys into the canonical shape.
func (r rawOrder) normalize() alerting.OrderDetail {
	detail := alerting.OrderDetail{
		OrderID:      firstNonEmpty(r.OrderID, r.ID),
		CustomerName: firstNonEmpty(r.CustomerName, r.ReceiverName, r.Name),
		Phone:        firstNonEmpty(r.Phone, r.Mobile, r.ReceiverPhone),
		Address:      firstNonEmpty(r.Address, r.ReceiverAddress),
		Note:         firstNonEmpty(r.Note, r.BuyerMessage),
		Total:        firstPositive(r.Total, r.TotalAmount, r.Amount),
	}

	lines := r.Items
	if len(lines) == 0 {
		lines = r.Lines
	}
	if len(lines) == 0 {
		lines = r.OrderItems
	}

	detail.Lines = make([]alerting.OrderLine, 0, len(lines))
	for _, l := range lines {
		detail.Lines = append(detail.Lines, l.normalize())
	}

	// Some producers omit the order total entirely; derive it from the
	// lines so the UI never shows a zero total next to priced items.
	if detail.Total.IsZero() && len(detail.Lines) > 0 {
		sum := decimal.Zero
		for _, l := range detail.Lines {
			sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		detail.Total = sum
	}

	return detail
}

func (l rawOrderLine) normalize() alerting.OrderLine {
	qty := l.Quantity
	if qty == 0 {
		qty = l.Qty
	}
	if qty == 0 {
		qty = l.Num
	}
	if qty == 0 {
		qty = 1
	}
	return alerting.OrderLine{
		ProductName: firstNonEmpty(l.ProductName, l.Title, l.Name),
		VariantName: firstNonEmpty(l.VariantName, l.SkuName),
		Quantity:    qty,
		UnitPrice:   firstPositive(l.UnitPrice, l.Price),
	}
}

// firstNonEmpty returns the first argument with non-whitespace content.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// firstPositive returns the first strictly positive decimal, or zero.
func firstPositive(values ...decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if v.IsPositive() {
			return v
		}
	}
	return decimal.Zero
}
