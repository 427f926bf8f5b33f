package services

import (
	"financas/internal/core"
)

// BuildInstallments expands a card purchase into its dated installment
// schedule.
//
// Each of the first count-1 installments carries the rounded per-installment
// value; the last one absorbs whatever rounding drift is left, so the
// schedule always sums to the purchase total to the cent. Due dates advance
// one calendar month per installment from the first due date, clamping the
// day only in months too short for it (Jan 31, Feb 28, Mar 31, ...).
//
// Returns core.ErrInvalidPurchase for non-positive amounts or counts; no
// partial schedule is ever produced.
func BuildInstallments(purchase core.CardPurchase) ([]core.Installment, error) {
	if err := purchase.Validate(); err != nil {
		return nil, err
	}

	total := purchase.TotalAmount.Cents
	count := int64(purchase.Installments)

	// Half-up rounding of total/count in cents.
	base := (total + count/2) / count
	last := total - base*(count-1)

	installments := make([]core.Installment, purchase.Installments)
	for i := range installments {
		amount := base
		if i == purchase.Installments-1 {
			amount = last
		}
		installments[i] = core.Installment{
			PurchaseID: purchase.ID,
			Number:     i + 1,
			Amount:     core.Money{Cents: amount},
			DueDate:    purchase.FirstDueDate.AddMonths(i),
		}
	}
	return installments, nil
}

// PendingTotal sums installments that are unpaid and due on or after the
// given date. This is the figure subtracted from the raw balance to obtain
// the adjusted balance.
func PendingTotal(installments []core.Installment, from core.Date) core.Money {
	var cents int64
	for _, inst := range installments {
		if !inst.Paid && !inst.DueDate.Before(from) {
			cents += inst.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}
