package panel

import "strings"

// Validate checks the writable fields of a product before it is sent
// upstream. The backend validates again; this keeps obviously broken
// input off the wire.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProductNameRequired
	}
	if !p.Price.IsPositive() {
		return ErrProductPriceInvalid
	}
	if p.Stock < 0 {
		return ErrProductStockNegative
	}
	for _, v := range p.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return ErrVariantNameRequired
		}
		if !v.Price.IsPositive() {
			return ErrProductPriceInvalid
		}
		if v.Stock < 0 {
			return ErrProductStockNegative
		}
	}
	return nil
}

// Validate checks a new ticket submission.
func (t *Ticket) Validate() error {
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrTicketCategoryRequired
	}
	if strings.TrimSpace(t.Subject) == "" {
		return ErrTicketSubjectRequired
	}
	if strings.TrimSpace(t.Body) == "" {
		return ErrTicketBodyRequired
	}
	return nil
}

// Validate checks a settings update.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.StoreName) == "" {
		return ErrStoreNameRequired
	}
	return nil
}

// Validate checks a new withdrawal request.
func (w *Withdrawal) Validate() error {
	if !w.Amount.IsPositive() {
		return ErrWithdrawalAmountInvalid
	}
	return nil
}
