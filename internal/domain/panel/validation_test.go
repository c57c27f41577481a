package panel

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_Validate(t *testing.T) {
	valid := Product{
		Name:  "Ceramic Mug",
		Price: decimal.NewFromFloat(12.50),
		Stock: 10,
	}

	tests := []struct {
		name    string
		mutate  func(*Product)
		wantErr error
	}{
		{name: "valid", mutate: func(*Product) {}},
		{
			name:    "empty name",
			mutate:  func(p *Product) { p.Name = "  " },
			wantErr: ErrProductNameRequired,
		},
		{
			name:    "zero price",
			mutate:  func(p *Product) { p.Price = decimal.Zero },
			wantErr: ErrProductPriceInvalid,
		},
		{
			name:    "negative stock",
			mutate:  func(p *Product) { p.Stock = -1 },
			wantErr: ErrProductStockNegative,
		},
		{
			name: "variant without name",
			mutate: func(p *Product) {
				p.Variants = []ProductVariant{{Name: "", Price: decimal.NewFromInt(5), Stock: 1}}
			},
			wantErr: ErrVariantNameRequired,
		},
		{
			name: "variant with zero price",
			mutate: func(p *Product) {
				p.Variants = []ProductVariant{{Name: "Small", Price: decimal.Zero, Stock: 1}}
			},
			wantErr: ErrProductPriceInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTicket_Validate(t *testing.T) {
	valid := Ticket{CategoryID: "c1", Subject: "Payout delayed", Body: "My payout is late."}

	assert.NoError(t, valid.Validate())

	missingCategory := valid
	missingCategory.CategoryID = ""
	assert.ErrorIs(t, missingCategory.Validate(), ErrTicketCategoryRequired)

	missingSubject := valid
	missingSubject.Subject = "   "
	assert.ErrorIs(t, missingSubject.Validate(), ErrTicketSubjectRequired)

	missingBody := valid
	missingBody.Body = ""
	assert.ErrorIs(t, missingBody.Validate(), ErrTicketBodyRequired)
}

func TestSettings_Validate(t *testing.T) {
	s := Settings{StoreName: "My Store"}
	assert.NoError(t, s.Validate())

	s.StoreName = " "
	assert.ErrorIs(t, s.Validate(), ErrStoreNameRequired)
}

func TestWithdrawal_Validate(t *testing.T) {
	w := Withdrawal{Amount: decimal.NewFromInt(100)}
	assert.NoError(t, w.Validate())

	w.Amount = decimal.Zero
	assert.ErrorIs(t, w.Validate(), ErrWithdrawalAmountInvalid)

	w.Amount = decimal.NewFromInt(-5)
	assert.ErrorIs(t, w.Validate(), ErrWithdrawalAmountInvalid)
}
