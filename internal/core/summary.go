package core

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"category"`
	Amount Money  `json:"amount"`
}

// Summary is the balance block of a dashboard report for one competence.
// AdjustedBalance is Balance minus unpaid installments due on or after the
// report date; ShowWarning follows the adjusted figure, not the raw one.
type Summary struct {
	Income              Money `json:"income"`
	Expenses            Money `json:"expenses"`
	Balance             Money `json:"balance"`
	PendingInstallments Money `json:"pending_installments"`
	AdjustedBalance     Money `json:"adjusted_balance"`
	ShowWarning         bool  `json:"show_warning"`
}

// CompetenceFlow is income versus expense totals for one competence, used by
// the monthly flow chart over the trailing competences.
type CompetenceFlow struct {
	Competence string `json:"competence"`
	Income     Money  `json:"income"`
	Expenses   Money  `json:"expenses"`
}

// PlannedMonth groups future installment load by competence and card.
type PlannedMonth struct {
	Competence string             `json:"competence"`
	ByCard     []CardInstallments `json:"by_card"`
}

// CardInstallments is the installment count and total due on one card.
type CardInstallments struct {
	Card  string `json:"card"`
	Count int    `json:"count"`
	Total Money  `json:"total"`
}
