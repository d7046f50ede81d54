package http

import (
	"log/slog"
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
)

type incomeRequest struct {
	Date       string `json:"date"`
	SourceType string `json:"source_type"`
	Partner    string `json:"partner"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
}

type incomeResponse struct {
	Index      int    `json:"index"`
	ID         string `json:"id"`
	Date       string `json:"date"`
	SourceType string `json:"source_type"`
	Partner    string `json:"partner"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
}

func incomeToResponse(index int, e core.IncomeEntry) incomeResponse {
	return incomeResponse{
		Index:      index,
		ID:         e.ID,
		Date:       e.Date.String(),
		SourceType: string(e.Source),
		Partner:    e.Partner,
		Amount:     e.Amount.String(),
		Note:       e.Note,
	}
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.ListIncomes(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List incomes failed", log.FieldError, err)
		writeError(w, err)
		return
	}

	out := make([]incomeResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, incomeToResponse(i, e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
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

	entry, index, err := s.ledger.AddIncome(r.Context(),
		date,
		core.SourceType(sanitizeInput(req.SourceType)),
		sanitizeInput(req.Partner),
		amount,
		sanitizeInput(req.Note))
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Create income failed", log.FieldError, err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, incomeToResponse(index, entry))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.ledger.DeleteIncome(r.Context(), index); err != nil {
		slog.ErrorContext(r.Context(), "Delete income failed", log.FieldError, err, log.FieldIndex, index)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
