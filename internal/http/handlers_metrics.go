package http

import (
	"log/slog"
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
)

type sourceAmountResponse struct {
	Source string `json:"source"`
	Amount string `json:"amount"`
}

type categoryAmountResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type debtSummaryResponse struct {
	OutstandingInAgreement string `json:"outstanding_in_agreement"`
	CountInAgreement       int    `json:"count_in_agreement"`
	OutstandingDelinquent  string `json:"outstanding_delinquent"`
	CountDelinquent        int    `json:"count_delinquent"`
	TotalOutstanding       string `json:"total_outstanding"`
}

type metricsResponse struct {
	Month             int                      `json:"month"`
	Year              int                      `json:"year"`
	TotalIncome       string                   `json:"total_income"`
	TotalExpense      string                   `json:"total_expense"`
	Balance           string                   `json:"balance"`
	IncomeBySource    []sourceAmountResponse   `json:"income_by_source"`
	ExpenseByCategory []categoryAmountResponse `json:"expense_by_category"`
	Debts             debtSummaryResponse      `json:"debts"`
	NetWorth          string                   `json:"net_worth"`
}

func metricsToResponse(snap core.MetricsSnapshot) metricsResponse {
	out := metricsResponse{
		Month:             snap.Month,
		Year:              snap.Year,
		TotalIncome:       snap.TotalIncome.String(),
		TotalExpense:      snap.TotalExpense.String(),
		Balance:           snap.Balance.String(),
		IncomeBySource:    make([]sourceAmountResponse, 0, len(snap.IncomeBySource)),
		ExpenseByCategory: make([]categoryAmountResponse, 0, len(snap.ExpenseByCategory)),
		Debts: debtSummaryResponse{
			OutstandingInAgreement: snap.OutstandingInAgreement.String(),
			CountInAgreement:       snap.CountInAgreement,
			OutstandingDelinquent:  snap.OutstandingDelinquent.String(),
			CountDelinquent:        snap.CountDelinquent,
			TotalOutstanding:       snap.TotalDebtOutstanding().String(),
		},
		NetWorth: snap.NetWorth().String(),
	}
	for _, s := range snap.IncomeBySource {
		out.IncomeBySource = append(out.IncomeBySource, sourceAmountResponse{
			Source: s.Source,
			Amount: s.Amount.String(),
		})
	}
	for _, c := range snap.ExpenseByCategory {
		out.ExpenseByCategory = append(out.ExpenseByCategory, categoryAmountResponse{
			Category: string(c.Category),
			Amount:   c.Amount.String(),
		})
	}
	return out
}

// handleMetrics computes the month snapshot from current ledger state on
// every request; nothing is cached.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	snap, err := s.metrics.ComputeMetrics(r.Context(), month, year)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Compute metrics failed",
				log.FieldError, err,
				log.FieldYear, year,
				log.FieldMonth, month)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsToResponse(snap))
}
