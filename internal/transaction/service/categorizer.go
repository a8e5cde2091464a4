// Package service provides transaction categorization.
package service

import "strings"

// categoryKeywords maps a category to merchant-name keywords. Order matters:
// the first category whose keyword matches wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Food and Drink", []string{"restaurant", "cafe", "starbucks", "mcdonalds", "pizza", "food", "grocery", "supermarket"}},
	{"Transportation", []string{"uber", "lyft", "gas", "fuel", "parking", "metro", "bus", "taxi", "united airlines"}},
	{"Shopping", []string{"amazon", "target", "walmart", "mall", "store", "shop", "sparkfun"}},
	{"Entertainment", []string{"netflix", "spotify", "movie", "theater", "game", "entertainment", "climbing", "playing"}},
	{"Bills & Utilities", []string{"electric", "water", "internet", "phone", "utility", "bill", "credit"}},
	{"Healthcare", []string{"pharmacy", "doctor", "hospital", "medical", "health"}},
	{"Income", []string{"salary", "payroll", "deposit", "transfer"}},
}

// Categorize assigns a category to a transaction. The provider category is
// consulted first, then merchant-name keywords; negative amounts are credits
// and fall back to Income.
func Categorize(name, providerCategory string, amount float64) string {
	if providerCategory != "" {
		switch {
		case strings.Contains(providerCategory, "Food"), strings.Contains(providerCategory, "Restaurant"):
			return "Food and Drink"
		case strings.Contains(providerCategory, "Transportation"):
			return "Transportation"
		case strings.Contains(providerCategory, "Shops"):
			return "Shopping"
		case strings.Contains(providerCategory, "Recreation"):
			return "Entertainment"
		case strings.Contains(providerCategory, "Service"):
			return "Bills & Utilities"
		case strings.Contains(providerCategory, "Healthcare"):
			return "Healthcare"
		case strings.Contains(providerCategory, "Deposit"), amount < 0:
			return "Income"
		}
	}

	lowerName := strings.ToLower(name)
	for _, mapping := range categoryKeywords {
		for _, keyword := range mapping.keywords {
			if strings.Contains(lowerName, keyword) {
				return mapping.category
			}
		}
	}

	if amount < 0 {
		return "Income"
	}

	return "Other"
}
