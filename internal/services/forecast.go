package services

import (
	"financas/internal/core"
)

// minSpendDays is the data-sufficiency floor: with fewer distinct days of
// spend in the month, the projection is suppressed rather than attempted.
const minSpendDays = 2

// ForecastMonthEnd projects how much more will be spent between the
// reference date and the end of its month.
//
// Only expense transactions dated in the reference month count. Amounts are
// summed per distinct calendar day; the mean daily total is then multiplied
// by the days remaining after the reference day. Below the two-day floor, or
// on the last day of the month, the projection is zero. Never fails.
func ForecastMonthEnd(transactions []core.Transaction, ref core.Date) core.Money {
	perDay := make(map[int]int64)
	for _, t := range transactions {
		if t.Kind != core.Expense || !t.Date.SameMonth(ref) {
			continue
		}
		perDay[t.Date.Day()] += t.Amount.Cents
	}

	if len(perDay) < minSpendDays {
		return core.Money{}
	}

	var total int64
	for _, cents := range perDay {
		total += cents
	}
	meanDaily := float64(total) / float64(len(perDay))

	remaining := ref.DaysInMonth() - ref.Day()
	if remaining <= 0 {
		return core.Money{}
	}

	projected := meanDaily * float64(remaining)
	return core.Money{Cents: int64(projected + 0.5)}
}
