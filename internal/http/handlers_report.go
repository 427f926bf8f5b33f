package http

import (
	"net/http"
	"time"

	"financas/internal/core"
	"financas/internal/services"
)

// handleReport builds the dashboard report. An empty competence means the
// whole history; the forecast always looks at the current calendar month.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	competence := r.URL.Query().Get("competence")
	if competence != "" && !core.ValidCompetence(competence) {
		writeError(w, r, core.ErrInvalidCompetence)
		return
	}

	report, err := s.reports.Build(r.Context(), competence, core.DateOf(time.Now()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// handlePlanning returns future installment load grouped by competence and
// card, starting today.
func (s *Server) handlePlanning(w http.ResponseWriter, r *http.Request) {
	planning, err := s.storage.PlanningByCard(r.Context(), core.DateOf(time.Now()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if planning == nil {
		planning = []core.PlannedMonth{}
	}
	writeJSON(w, r, http.StatusOK, planning)
}

func (s *Server) handleListCompetences(w http.ResponseWriter, r *http.Request) {
	competences, err := s.storage.ListCompetences(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if competences == nil {
		competences = []string{}
	}
	writeJSON(w, r, http.StatusOK, competences)
}

type simulationRequest struct {
	Balance             string `json:"balance"`
	Goal                string `json:"goal"`
	MonthlyContribution string `json:"monthly_contribution"`
	Profile             string `json:"profile,omitempty"`
	Months              int    `json:"months"`
}

type simulationResponse struct {
	Projection           []core.Money `json:"projection"`
	GoalReached          bool         `json:"goal_reached"`
	IdealContribution    core.Money   `json:"ideal_contribution"`
	SuggestedInvestments []string     `json:"suggested_investments"`
}

// handleSimulation projects an investment goal forward. Pure computation,
// nothing is persisted.
func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	balance, err := core.ParseDecimalToCents(req.Balance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	goal, err := core.ParseDecimalToCents(req.Goal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	contribution, err := core.ParseDecimalToCents(req.MonthlyContribution)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Months <= 0 || req.Months > 600 {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "months must be between 1 and 600"})
		return
	}

	result := services.Simulate(services.SimulationRequest{
		BalanceCents:        balance,
		GoalCents:           goal,
		MonthlyContribution: contribution,
		Profile:             req.Profile,
		Months:              req.Months,
	})
	writeJSON(w, r, http.StatusOK, simulationResponse{
		Projection:           result.Projection,
		GoalReached:          result.GoalReached,
		IdealContribution:    result.IdealContribution,
		SuggestedInvestments: result.SuggestedInvestments,
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
