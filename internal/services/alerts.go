package services

import (
	"fmt"

	"financas/internal/core"
)

// AlertConfig carries every threshold the alert engine needs. Thresholds are
// injected so tests and callers can vary them without process-wide state.
type AlertConfig struct {
	// CardMethodName is the payment method whose aggregate spend is checked
	// against CardCeiling.
	CardMethodName string
	CardCeiling    core.Money

	// Investment suggestion tiers; bounds are inclusive at the bottom of
	// each tier.
	HighBalanceMin   core.Money
	MediumBalanceMin core.Money

	// CategoryTargets are fallback monthly targets keyed by normalized
	// category name, used when the category itself carries no target.
	CategoryTargets map[string]core.Money
}

// DefaultAlertConfig mirrors the historical fixed ceilings.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		CardMethodName:   "Cartão",
		CardCeiling:      core.Money{Cents: 150000},
		HighBalanceMin:   core.Money{Cents: 100000},
		MediumBalanceMin: core.Money{Cents: 50000},
		CategoryTargets: map[string]core.Money{
			"alimentacao": {Cents: 80000},
			"transporte":  {Cents: 30000},
		},
	}
}

// AlertInput is a snapshot of already-aggregated figures. The engine only
// decides; the caller queries the totals.
type AlertInput struct {
	CardMethodSpend core.Money
	CategorySpend   []core.CategoryAmount // expense totals per category, current period
	Categories      []core.Category       // category-level targets, if any
	BalanceCents    int64                 // raw balance, may be negative
	Forecast        core.Money
}

// Evaluate runs the sub-checks in fixed order and concatenates their alerts:
// card ceiling, per-category targets, forecast, investment suggestion.
// It is pure and never fails; missing targets simply produce no alert.
func Evaluate(cfg AlertConfig, in AlertInput) []core.Alert {
	alerts := make([]core.Alert, 0, 4)
	alerts = append(alerts, cardCeilingAlert(cfg, in.CardMethodSpend))
	alerts = append(alerts, categoryTargetAlerts(cfg, in)...)
	if in.Forecast.Cents > 0 {
		alerts = append(alerts, core.Alert{
			Severity: core.SeverityInfo,
			Message:  fmt.Sprintf("Estimativa de gastos até o fim do mês: %s.", formatReais(in.Forecast)),
			Action:   "Planejar orçamento",
		})
	}
	alerts = append(alerts, investmentSuggestion(cfg, in.BalanceCents))
	return alerts
}

func cardCeilingAlert(cfg AlertConfig, spend core.Money) core.Alert {
	if spend.Cents > cfg.CardCeiling.Cents {
		overage := core.Money{Cents: spend.Cents - cfg.CardCeiling.Cents}
		return core.Alert{
			Severity: core.SeverityWarning,
			Message:  fmt.Sprintf("Você ultrapassou sua meta no cartão em %s.", formatReais(overage)),
			Overage:  &overage,
			Action:   "Revisar gastos no cartão",
		}
	}
	return core.Alert{
		Severity: core.SeveritySuccess,
		Message:  "Gastos no cartão estão dentro da meta.",
	}
}

// categoryTargetAlerts emits one alert per category whose current spend is
// strictly greater than its target. A category-level target wins over the
// configured fallback table; categories with neither are skipped silently.
func categoryTargetAlerts(cfg AlertConfig, in AlertInput) []core.Alert {
	byName := make(map[string]core.Money, len(in.Categories))
	for _, c := range in.Categories {
		if c.MonthlyTarget != nil {
			byName[c.Name] = *c.MonthlyTarget
		}
	}

	var alerts []core.Alert
	for _, spend := range in.CategorySpend {
		target, ok := byName[spend.Name]
		if !ok {
			target, ok = cfg.CategoryTargets[NormalizeText(spend.Name)]
		}
		if !ok || target.Cents <= 0 {
			continue
		}
		if spend.Amount.Cents > target.Cents {
			overage := core.Money{Cents: spend.Amount.Cents - target.Cents}
			alerts = append(alerts, core.Alert{
				Severity: core.SeverityWarning,
				Message:  fmt.Sprintf("Categoria '%s' ultrapassou a meta em %s.", spend.Name, formatReais(overage)),
				Overage:  &overage,
			})
		}
	}
	return alerts
}

// investmentSuggestion picks exactly one tier by available balance.
func investmentSuggestion(cfg AlertConfig, balanceCents int64) core.Alert {
	switch {
	case balanceCents >= cfg.HighBalanceMin.Cents:
		return core.Alert{
			Severity: core.SeveritySuccess,
			Message:  "Considere aplicar em CDBs ou Tesouro Direto com liquidez diária.",
			Action:   "Simular aplicação",
		}
	case balanceCents >= cfg.MediumBalanceMin.Cents:
		return core.Alert{
			Severity: core.SeverityInfo,
			Message:  "Que tal começar com um fundo de renda fixa conservador?",
			Action:   "Simular aplicação",
		}
	default:
		return core.Alert{
			Severity: core.SeverityWarning,
			Message:  "Priorize montar uma reserva de emergência antes de investir.",
			Action:   "Revisar gastos",
		}
	}
}

// BuildSummary derives the balance block of a report. ShowWarning is raised
// when the raw balance is negative, or when pending installments push the
// adjusted balance below zero.
func BuildSummary(income, expenses, pending core.Money) core.Summary {
	balance := income.Cents - expenses.Cents
	adjusted := balance - pending.Cents
	return core.Summary{
		Income:              income,
		Expenses:            expenses,
		Balance:             core.Money{Cents: balance},
		PendingInstallments: pending,
		AdjustedBalance:     core.Money{Cents: adjusted},
		ShowWarning:         balance < 0 || (adjusted < 0 && pending.Cents > 0),
	}
}

func formatReais(m core.Money) string {
	return fmt.Sprintf("R$ %.2f", m.Reais())
}
