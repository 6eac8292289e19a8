package services

import (
	"sort"
	"strconv"
	"strings"

	"go-storefront-orders/helpers"
	"go-storefront-orders/models"
)

// ComputeStats derives the read-side projection over a ledger. Recomputable
// at any time; never the source of truth.
func ComputeStats(orders []models.Order) models.OrderStats {
	stats := models.OrderStats{Total: len(orders)}
	for _, order := range orders {
		switch order.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusProcessing:
			stats.Processing++
		case models.StatusReady:
			stats.Ready++
		case models.StatusDelivered:
			stats.Delivered++
		case models.StatusCancelled:
			stats.Cancelled++
		}
		stats.Total_revenue += helpers.ParseCurrency(order.Total_amount)
	}
	return stats
}

// TopProducts parses each order's flattened items text back into
// (name, quantity) pairs, sums by name and returns the top n descending.
// Option suffixes like " (Size: Large)" are stripped so variants of one
// product count together. Ties keep first-encountered order.
func TopProducts(orders []models.Order, n int) []models.TopProduct {
	totals := make(map[string]int)
	var names []string // first-encountered order

	for _, order := range orders {
		for _, part := range splitItems(order.Items) {
			name, qty := parseItemEntry(part)
			if name == "" {
				continue
			}
			if _, seen := totals[name]; !seen {
				names = append(names, name)
			}
			totals[name] += qty
		}
	}

	products := make([]models.TopProduct, 0, len(names))
	for _, name := range names {
		products = append(products, models.TopProduct{Name: name, Quantity: totals[name]})
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Quantity > products[j].Quantity
	})

	if n > 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// splitItems breaks the flattened items text at ", " boundaries outside
// parentheses. Flattened names carry the same separator inside their option
// suffix ("Latte (Size: Large, Add-ons: Pearls) x2"), so a plain split
// would shred them.
func splitItems(items string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(items); i++ {
		switch items[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 && i+1 < len(items) && items[i+1] == ' ' {
				parts = append(parts, items[start:i])
				start = i + 2
				i++
			}
		}
	}
	return append(parts, items[start:])
}

// parseItemEntry splits "Latte (Size: Large) x2" into ("Latte", 2).
func parseItemEntry(entry string) (string, int) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", 0
	}

	name := entry
	qty := 1
	if idx := strings.LastIndex(entry, " x"); idx >= 0 {
		if parsed, err := strconv.Atoi(strings.TrimSpace(entry[idx+2:])); err == nil {
			name = strings.TrimSpace(entry[:idx])
			qty = parsed
		}
	}

	// strip the flattened options suffix
	if idx := strings.Index(name, " ("); idx >= 0 {
		name = name[:idx]
	}
	return name, qty
}
