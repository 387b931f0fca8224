package services_test

import (
	"testing"

	"sneakerhead/internal/services"

	"github.com/google/go-cmp/cmp"
)

func TestPricing_Compute(t *testing.T) {
	pricing := services.NewPricing(testConfig())

	tests := []struct {
		name  string
		lines []services.PricedLine
		want  services.Totals
	}{
		{
			name:  "over the free shipping threshold",
			lines: []services.PricedLine{{Price: 299, Quantity: 2}},
			want:  services.Totals{Subtotal: 598, Tax: 59.8, Shipping: 0, Total: 657.8},
		},
		{
			name:  "exactly at the threshold still pays shipping",
			lines: []services.PricedLine{{Price: 250, Quantity: 2}},
			want:  services.Totals{Subtotal: 500, Tax: 50, Shipping: 10, Total: 560},
		},
		{
			name:  "below the threshold",
			lines: []services.PricedLine{{Price: 19.99, Quantity: 3}, {Price: 0.1, Quantity: 1}},
			want:  services.Totals{Subtotal: 60.07, Tax: 6.01, Shipping: 10, Total: 76.08},
		},
		{
			name: "empty",
			want: services.Totals{Shipping: 10, Total: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Compute(tt.lines)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	if got := services.LineTotal(19.99, 3); got != 59.97 {
		t.Errorf("LineTotal() = %v, want 59.97", got)
	}
}
