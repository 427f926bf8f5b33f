package services

import (
	"math"

	"financas/internal/core"
)

// monthlyGrowthRate is the flat rate applied per simulated month.
const monthlyGrowthRate = 0.003

// SimulationRequest describes an investment goal to project.
type SimulationRequest struct {
	BalanceCents        int64
	GoalCents           int64
	MonthlyContribution int64
	Profile             string // conservador, moderado, arrojado
	Months              int
}

// SimulationResult carries the month-by-month projection and, when the goal
// is missed, the contribution that would reach it.
type SimulationResult struct {
	Projection           []core.Money
	GoalReached          bool
	IdealContribution    core.Money
	SuggestedInvestments []string
}

// profileOptions maps risk profiles to product suggestions; unknown profiles
// fall through to the aggressive list, matching the historical behavior.
var profileOptions = map[string][]string{
	"conservador": {"Tesouro Selic", "CDB com liquidez diária"},
	"moderado":    {"CDB com vencimento curto", "Fundos de Renda Fixa"},
	"arrojado":    {"Fundos multimercado", "ETFs de renda fixa"},
}

// Simulate projects the balance forward with monthly contributions and
// compound growth. Pure; a non-positive month count yields an empty
// projection with the goal checked against the starting balance.
func Simulate(req SimulationRequest) SimulationResult {
	options, ok := profileOptions[req.Profile]
	if !ok {
		options = profileOptions["arrojado"]
	}

	projection := make([]core.Money, 0, req.Months)
	balance := float64(req.BalanceCents)
	for month := 0; month < req.Months; month++ {
		balance += float64(req.MonthlyContribution)
		balance *= 1 + monthlyGrowthRate
		projection = append(projection, core.Money{Cents: int64(math.Round(balance))})
	}

	goalReached := balance >= float64(req.GoalCents)

	ideal := req.MonthlyContribution
	if !goalReached && req.Months > 0 {
		// Solve goal = balance*g^n + contribution*sum(g^i, i=1..n) for the
		// contribution, g being the monthly growth factor.
		g := 1 + monthlyGrowthRate
		var factor float64
		for i := 1; i <= req.Months; i++ {
			factor += math.Pow(g, float64(i))
		}
		grown := float64(req.BalanceCents) * math.Pow(g, float64(req.Months))
		ideal = int64(math.Round((float64(req.GoalCents) - grown) / factor))
	}

	return SimulationResult{
		Projection:           projection,
		GoalReached:          goalReached,
		IdealContribution:    core.Money{Cents: ideal},
		SuggestedInvestments: options,
	}
}
