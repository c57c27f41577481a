package panel

import "errors"

var (
	ErrProductNameRequired  = errors.New("panel: product name is required")
	ErrProductPriceInvalid  = errors.New("panel: product price must be positive")
	ErrProductStockNegative = errors.New("panel: product stock cannot be negative")
	ErrVariantNameRequired  = errors.New("panel: variant name is required")

	ErrTicketCategoryRequired = errors.New("panel: ticket category is required")
	ErrTicketSubjectRequired  = errors.New("panel: ticket subject is required")
	ErrTicketBodyRequired     = errors.New("panel: ticket body is required")

	ErrStoreNameRequired = errors.New("panel: store name is required")

	ErrWithdrawalAmountInvalid = errors.New("panel: withdrawal amount must be positive")
)
