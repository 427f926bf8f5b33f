package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
)

type createTransactionRequest struct {
	Competence    string `json:"competence,omitempty"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	Establishment string `json:"establishment,omitempty"`
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	Category      string `json:"category,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

type createTransactionResponse struct {
	ID         int64  `json:"id"`
	Category   string `json:"category"`
	Competence string `json:"competence"`
}

// handleCreateTransaction registers one transaction. An omitted category is
// classified; an omitted competence defaults to the date's month.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t := core.Transaction{
		Competence:    req.Competence,
		Date:          date,
		Description:   sanitizeInput(req.Description),
		Establishment: sanitizeInput(req.Establishment),
		Amount:        core.Money{Cents: cents},
		Kind:          core.Kind(req.Kind),
		Category:      sanitizeInput(req.Category),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
	}

	id, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.storage.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, createTransactionResponse{
		ID:         id,
		Category:   saved.Category,
		Competence: saved.Competence,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReclassify re-runs classification over the fallback category. The
// operation is idempotent, so retrying a timed-out request is safe.
func (s *Server) handleReclassify(w http.ResponseWriter, r *http.Request) {
	updated, err := s.transactions.ReclassifyFallback(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"updated": updated})
}

type transactionResponse struct {
	ID            int64      `json:"id"`
	Competence    string     `json:"competence"`
	Date          string     `json:"date"`
	Description   string     `json:"description"`
	Establishment string     `json:"establishment,omitempty"`
	Amount        core.Money `json:"amount"`
	Kind          string     `json:"kind"`
	Category      string     `json:"category"`
	PaymentMethod string     `json:"payment_method,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	competence := r.URL.Query().Get("competence")
	transactions, err := s.storage.ListTransactions(r.Context(), competence)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, transactionResponse{
			ID:            t.ID,
			Competence:    t.Competence,
			Date:          t.Date.Format("2006-01-02"),
			Description:   t.Description,
			Establishment: t.Establishment,
			Amount:        t.Amount,
			Kind:          string(t.Kind),
			Category:      t.Category,
			PaymentMethod: t.PaymentMethod,
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}
