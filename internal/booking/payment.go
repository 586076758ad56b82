package booking

import "math"

const DefaultTaxRate = 0.12

// Quote is the price breakdown shown on the payment page.
type Quote struct {
	Subtotal    int64   `json:"subtotal"`
	TaxRate     float64 `json:"tax_rate"`
	TaxAmount   int64   `json:"tax_amount"`
	FinalAmount int64   `json:"final_amount"`
}

// NewQuote rounds tax to the nearest whole unit.
func NewQuote(total int64, rate float64) Quote {
	tax := int64(math.Round(float64(total) * rate))
	return Quote{
		Subtotal:    total,
		TaxRate:     rate,
		TaxAmount:   tax,
		FinalAmount: total + tax,
	}
}
