package booking

import "testing"

func TestNewQuote(t *testing.T) {
	cases := []struct {
		total, tax, final int64
	}{
		{40, 5, 45},
		{0, 0, 0},
		{45, 5, 50},
		{90, 11, 101},
		{125, 15, 140},
	}
	for _, tc := range cases {
		q := NewQuote(tc.total, DefaultTaxRate)
		if q.TaxAmount != tc.tax || q.FinalAmount != tc.final || q.Subtotal != tc.total {
			t.Fatalf("NewQuote(%d) = %+v, want tax %d final %d", tc.total, q, tc.tax, tc.final)
		}
	}
}
