package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name             string
		merchant         string
		providerCategory string
		amount           float64
		want             string
	}{
		{"provider food category", "Starbucks Coffee", "Food and Drink", 5.50, "Food and Drink"},
		{"provider transportation category", "Uber ride", "Transportation", 15.00, "Transportation"},
		{"provider shops category", "Some store", "Shops", 50.00, "Shopping"},
		{"provider recreation category", "Climbing gym", "Recreation", 30.00, "Entertainment"},
		{"provider service category", "Comcast", "Service", 80.00, "Bills & Utilities"},
		{"provider healthcare category", "CVS", "Healthcare", 12.00, "Healthcare"},
		{"provider deposit category", "Salary deposit", "Deposit", -2500.00, "Income"},
		{"keyword match on merchant name", "Dinner at pizza place", "", 22.00, "Food and Drink"},
		{"keyword match is case insensitive", "AMAZON MARKETPLACE", "", 40.00, "Shopping"},
		{"income keyword", "Monthly payroll", "", 10.00, "Income"},
		{"negative amount fallback", "Refund", "", -30.00, "Income"},
		{"unknown merchant", "Unknown merchant", "", 25.00, "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.merchant, tt.providerCategory, tt.amount))
		})
	}
}
