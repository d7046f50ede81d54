package http

import (
	"log/slog"
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
)

type debtRequest struct {
	Creditor    string `json:"creditor"`
	TotalAmount string `json:"total_amount"`
	PaidAmount  string `json:"paid_amount"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	Note        string `json:"note,omitempty"`
}

type paymentRequest struct {
	Amount string `json:"amount"`
}

type debtResponse struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	Creditor    string `json:"creditor"`
	TotalAmount string `json:"total_amount"`
	PaidAmount  string `json:"paid_amount"`
	Outstanding string `json:"outstanding"`
	PercentPaid string `json:"percent_paid"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	Note        string `json:"note,omitempty"`
}

func debtToResponse(index int, d core.Debt) debtResponse {
	return debtResponse{
		Index:       index,
		ID:          d.ID,
		Creditor:    d.Creditor,
		TotalAmount: d.TotalAmount.String(),
		PaidAmount:  d.PaidAmount.String(),
		Outstanding: d.Outstanding().String(),
		PercentPaid: d.PercentPaid().StringFixed(2),
		Status:      string(d.Status),
		StartDate:   d.StartDate.String(),
		Note:        d.Note,
	}
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.ledger.ListDebts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List debts failed", log.FieldError, err)
		writeError(w, err)
		return
	}

	out := make([]debtResponse, 0, len(debts))
	for i, d := range debts {
		out = append(out, debtToResponse(i, d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	startDate, err := core.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := core.ParseAmount(req.TotalAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	paid, err := core.ParseAmount(req.PaidAmount)
	if err != nil {
		writeError(w, err)
		return
	}

	debt, index, err := s.ledger.AddDebt(r.Context(),
		sanitizeInput(req.Creditor),
		total,
		paid,
		core.DebtStatus(sanitizeInput(req.Status)),
		startDate,
		sanitizeInput(req.Note))
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Create debt failed", log.FieldError, err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, debtToResponse(index, debt))
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.ledger.DeleteDebt(r.Context(), index); err != nil {
		slog.ErrorContext(r.Context(), "Delete debt failed", log.FieldError, err, log.FieldIndex, index)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	debt, err := s.ledger.PayDebt(r.Context(), index, amount)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Pay debt failed", log.FieldError, err, log.FieldIndex, index)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debtToResponse(index, debt))
}
