package services

import (
	"context"
	"fmt"

	"financas/internal/core"
	"financas/internal/storage"
)

// flowMonths is how many trailing competences the monthly flow chart covers.
const flowMonths = 6

// Report is the transient dashboard payload. It is recomputed per request
// from a storage snapshot and never persisted.
type Report struct {
	Competence  string                `json:"competence"`
	Summary     core.Summary          `json:"summary"`
	Alerts      []core.Alert          `json:"alerts"`
	Forecast    core.Money            `json:"forecast"`
	ByCategory  []core.CategoryAmount `json:"by_category"`
	MonthlyFlow []core.CompetenceFlow `json:"monthly_flow"`
	Planning    []core.PlannedMonth   `json:"planning"`
	Tip         string                `json:"tip"`
}

// ReportService assembles the dashboard report: aggregate queries go to
// storage, then the pure forecast and alert engines run over the snapshot.
// Nothing here mutates persisted state.
type ReportService struct {
	storage *storage.SQLiteRepository
	alerts  AlertConfig
}

func NewReportService(storage *storage.SQLiteRepository, alerts AlertConfig) *ReportService {
	return &ReportService{storage: storage, alerts: alerts}
}

// Build produces the report for one competence as seen from today. An empty
// competence means the whole history.
func (s *ReportService) Build(ctx context.Context, competence string, today core.Date) (Report, error) {
	income, err := s.storage.KindTotal(ctx, competence, core.Income)
	if err != nil {
		return Report{}, fmt.Errorf("income total: %w", err)
	}
	expenses, err := s.storage.KindTotal(ctx, competence, core.Expense)
	if err != nil {
		return Report{}, fmt.Errorf("expense total: %w", err)
	}

	pending, err := s.storage.PendingInstallments(ctx, today)
	if err != nil {
		return Report{}, fmt.Errorf("pending installments: %w", err)
	}
	pendingTotal := PendingTotal(pending, today)

	summary := BuildSummary(income, expenses, pendingTotal)

	currentMonth, err := s.storage.ListTransactions(ctx, core.CompetenceOf(today))
	if err != nil {
		return Report{}, fmt.Errorf("current month transactions: %w", err)
	}
	forecast := ForecastMonthEnd(currentMonth, today)

	cardSpend, err := s.storage.PaymentMethodTotal(ctx, competence, s.alerts.CardMethodName)
	if err != nil {
		return Report{}, fmt.Errorf("card spend: %w", err)
	}
	byCategory, err := s.storage.CategoryExpenseTotals(ctx, competence)
	if err != nil {
		return Report{}, fmt.Errorf("category totals: %w", err)
	}
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list categories: %w", err)
	}

	alerts := Evaluate(s.alerts, AlertInput{
		CardMethodSpend: cardSpend,
		CategorySpend:   byCategory,
		Categories:      categories,
		BalanceCents:    summary.Balance.Cents,
		Forecast:        forecast,
	})

	flows, err := s.storage.CompetenceFlows(ctx, LastCompetences(today, flowMonths))
	if err != nil {
		return Report{}, fmt.Errorf("monthly flow: %w", err)
	}

	planning, err := s.storage.PlanningByCard(ctx, today)
	if err != nil {
		return Report{}, fmt.Errorf("planning: %w", err)
	}

	return Report{
		Competence:  competence,
		Summary:     summary,
		Alerts:      alerts,
		Forecast:    forecast,
		ByCategory:  byCategory,
		MonthlyFlow: flows,
		Planning:    planning,
		Tip:         RandomSavingTip(),
	}, nil
}

// LastCompetences lists the n competences ending at the reference month, in
// chronological order.
func LastCompetences(ref core.Date, n int) []string {
	competences := make([]string, n)
	for i := 0; i < n; i++ {
		competences[n-1-i] = core.CompetenceOf(ref.AddMonths(-i))
	}
	return competences
}
