package http

import (
	"log/slog"
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
)

type expenseRequest struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Note     string `json:"note,omitempty"`
}

type expenseResponse struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Note     string `json:"note,omitempty"`
}

func expenseToResponse(index int, e core.ExpenseEntry) expenseResponse {
	return expenseResponse{
		Index:    index,
		ID:       e.ID,
		Date:     e.Date.String(),
		Category: string(e.Category),
		Amount:   e.Amount.String(),
		Note:     e.Note,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", log.FieldError, err)
		writeError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, expenseToResponse(i, e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, index, err := s.ledger.AddExpense(r.Context(),
		date,
		core.Category(sanitizeInput(req.Category)),
		amount,
		sanitizeInput(req.Note))
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Create expense failed", log.FieldError, err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseToResponse(index, entry))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.ledger.DeleteExpense(r.Context(), index); err != nil {
		slog.ErrorContext(r.Context(), "Delete expense failed", log.FieldError, err, log.FieldIndex, index)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
