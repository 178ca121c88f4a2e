// Package report aggregates persisted orders into sales summaries.
// Everything here is pure: the caller fetches orders, these functions
// only fold over them.
package report

import (
	"sort"
	"strings"

	"taaza/backend/internal/domain"
)

type group struct {
	qty           int
	totalPaise    int64
	weightKg      float64
	rateSumPaise  int64
	rateCount     int
	cashPaise     int64
	onlinePaise   int64
	orderIDs      map[string]struct{}
}

// Summarize groups line items across orders by exact item name and
// accumulates quantity, revenue, weight, a cash/online revenue split
// and the average price per kg over lines that carry one. Historical
// records are incomplete in places: a zero quantity counts as 1, blank
// names fall into an "Unknown" bucket, and payment methods other than
// cash/online contribute only to the unsplit totals.
func Summarize(orders []domain.Order) domain.SummaryReport {
	groups := make(map[string]*group)
	overallOrders := make(map[string]struct{})
	overall := domain.ProductSummary{Name: "Overall"}
	var overallRateSum int64
	var overallRateCount int

	for _, order := range orders {
		payment := strings.ToLower(strings.TrimSpace(order.PaymentMethod))
		orderKey := order.OrderID
		if orderKey == "" {
			orderKey = order.ID
		}
		for _, item := range order.Items {
			name := item.Name
			if strings.TrimSpace(name) == "" {
				name = "Unknown"
			}
			qty := item.Qty
			if qty < 1 {
				qty = 1
			}

			g, ok := groups[name]
			if !ok {
				g = &group{orderIDs: make(map[string]struct{})}
				groups[name] = g
			}
			g.qty += qty
			g.totalPaise += item.TotalPaise
			g.weightKg += item.WeightKg
			if item.PricePerKgPaise > 0 {
				g.rateSumPaise += item.PricePerKgPaise
				g.rateCount++
				overallRateSum += item.PricePerKgPaise
				overallRateCount++
			}
			switch payment {
			case "cash":
				g.cashPaise += item.TotalPaise
			case "online":
				g.onlinePaise += item.TotalPaise
			}
			g.orderIDs[orderKey] = struct{}{}

			overall.Qty += qty
			overall.TotalPaise += item.TotalPaise
			overall.WeightKg += item.WeightKg
			switch payment {
			case "cash":
				overall.CashPaise += item.TotalPaise
			case "online":
				overall.OnlinePaise += item.TotalPaise
			}
			overallOrders[orderKey] = struct{}{}
		}
	}

	rows := make([]domain.ProductSummary, 0, len(groups))
	for name, g := range groups {
		row := domain.ProductSummary{
			Name:        name,
			Qty:         g.qty,
			TotalPaise:  g.totalPaise,
			WeightKg:    g.weightKg,
			OrderCount:  len(g.orderIDs),
			CashPaise:   g.cashPaise,
			OnlinePaise: g.onlinePaise,
		}
		if g.rateCount > 0 {
			row.AvgPricePerKgPaise = g.rateSumPaise / int64(g.rateCount)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPaise != rows[j].TotalPaise {
			return rows[i].TotalPaise > rows[j].TotalPaise
		}
		return rows[i].Name < rows[j].Name
	})

	overall.OrderCount = len(overallOrders)
	if overallRateCount > 0 {
		overall.AvgPricePerKgPaise = overallRateSum / int64(overallRateCount)
	}

	return domain.SummaryReport{Rows: rows, Overall: overall}
}

// Analytics computes the dashboard counters.
func Analytics(orders []domain.Order) domain.AnalyticsSnapshot {
	snap := domain.AnalyticsSnapshot{TotalOrders: len(orders)}
	for _, order := range orders {
		snap.TotalRevenuePaise += order.TotalPaise
		switch order.Status {
		case domain.OrderStatusPending:
			snap.PendingOrders++
		case domain.OrderStatusCompleted:
			snap.CompletedOrders++
		}
	}
	return snap
}
