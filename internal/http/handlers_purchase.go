package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
)

type createPurchaseRequest struct {
	Description  string `json:"description"`
	Card         string `json:"card,omitempty"`
	TotalAmount  string `json:"total_amount"`
	Installments int    `json:"installments"`
	FirstDueDate string `json:"first_due_date"`
}

type installmentResponse struct {
	ID         int64      `json:"id,omitempty"`
	PurchaseID int64      `json:"purchase_id"`
	Number     int        `json:"number"`
	Amount     core.Money `json:"amount"`
	DueDate    string     `json:"due_date"`
	Paid       bool       `json:"paid"`
}

type createPurchaseResponse struct {
	ID           int64                 `json:"id"`
	Installments []installmentResponse `json:"installments"`
}

// handleCreatePurchase registers a card purchase and its full installment
// schedule. An identical resubmission gets 409 instead of a second schedule.
func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	firstDue, err := parseDate(req.FirstDueDate)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cents, err := core.ParseDecimalToCents(req.TotalAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p := core.CardPurchase{
		Description:  sanitizeInput(req.Description),
		Card:         sanitizeInput(req.Card),
		TotalAmount:  core.Money{Cents: cents},
		Installments: req.Installments,
		FirstDueDate: firstDue,
	}

	id, installments, err := s.purchases.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, createPurchaseResponse{
		ID:           id,
		Installments: installmentsToResponse(installments),
	})
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.purchases.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListInstallments lists installments, optionally filtered by due
// competence (YYYY-MM) and card.
func (s *Server) handleListInstallments(w http.ResponseWriter, r *http.Request) {
	competence := r.URL.Query().Get("competence")
	card := r.URL.Query().Get("card")

	installments, err := s.purchases.ListInstallments(r.Context(), competence, card)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, installmentsToResponse(installments))
}

// handleToggleInstallment flips one installment's paid flag.
func (s *Server) handleToggleInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	paid, err := s.purchases.TogglePaid(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"id": id, "paid": paid})
}

func installmentsToResponse(installments []core.Installment) []installmentResponse {
	out := make([]installmentResponse, 0, len(installments))
	for _, inst := range installments {
		out = append(out, installmentResponse{
			ID:         inst.ID,
			PurchaseID: inst.PurchaseID,
			Number:     inst.Number,
			Amount:     inst.Amount,
			DueDate:    inst.DueDate.Format("2006-01-02"),
			Paid:       inst.Paid,
		})
	}
	return out
}
