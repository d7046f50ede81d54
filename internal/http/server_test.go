package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"financas/internal/services"
	"financas/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo := memory.New()
	srv := NewServer("127.0.0.1:0",
		services.NewLedgerService(repo, nil),
		services.NewMetricsService(repo))
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestCreateAndListIncomes(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/incomes",
		`{"date":"2024-03-05","source_type":"Salary","partner":"A","amount":"3000.00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created incomeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Index != 0 || created.Amount != "3000" || created.ID == "" {
		t.Fatalf("unexpected created income: %+v", created)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/incomes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []incomeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Partner != "A" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCreateIncomeValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"date":`, http.StatusBadRequest},
		{"bad source type", `{"date":"2024-03-05","source_type":"Dividends","partner":"A","amount":"10"}`, http.StatusUnprocessableEntity},
		{"empty partner", `{"date":"2024-03-05","source_type":"Salary","partner":" ","amount":"10"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"date":"2024-03-05","source_type":"Salary","partner":"A","amount":"-10"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"date":"05/03/2024","source_type":"Salary","partner":"A","amount":"10"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/incomes", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}

	// Nothing was stored by the rejected requests.
	rec := doRequest(t, srv, http.MethodGet, "/api/incomes", "")
	var list []incomeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected requests reached storage: %+v", list)
	}
}

func TestDeleteIncomeOutOfRangeIsNoOp(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodDelete, "/api/incomes/5", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/incomes/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric index, got %d", rec.Code)
	}
}

func TestDeleteExpenseShiftsIndices(t *testing.T) {
	srv := newTestServer(t)

	for _, note := range []string{"first", "second", "third"} {
		rec := doRequest(t, srv, http.MethodPost, "/api/expenses",
			`{"date":"2024-03-10","category":"Food","amount":"10","note":"`+note+`"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense: %d", rec.Code)
		}
	}

	if rec := doRequest(t, srv, http.MethodDelete, "/api/expenses/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/expenses", "")
	var list []expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 || list[0].Note != "first" || list[1].Note != "third" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
	if list[1].Index != 1 {
		t.Fatalf("indices not re-densified: %+v", list[1])
	}
}

func TestDebtPayments(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/debts",
		`{"creditor":"Bank","total_amount":"1000","paid_amount":"200","status":"InAgreement","start_date":"2023-01-15"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create debt: %d: %s", rec.Code, rec.Body.String())
	}
	var created debtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Outstanding != "800" || created.PercentPaid != "20.00" {
		t.Fatalf("unexpected derived fields: %+v", created)
	}

	// Exceeds outstanding balance.
	rec = doRequest(t, srv, http.MethodPost, "/api/debts/0/payments", `{"amount":"900"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/debts/0/payments", `{"amount":"800"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var paid debtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &paid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if paid.PaidAmount != "1000" || paid.Outstanding != "0" {
		t.Fatalf("unexpected debt after payment: %+v", paid)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/debts/9/payments", `{"amount":"1"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing debt, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	seed := []struct {
		path, body string
	}{
		{"/api/incomes", `{"date":"2024-03-05","source_type":"Salary","partner":"A","amount":"3000.00"}`},
		{"/api/incomes", `{"date":"2024-03-12","source_type":"ExtraIncome","partner":"B","amount":"500.00"}`},
		{"/api/expenses", `{"date":"2024-03-20","category":"Food","amount":"800.00"}`},
		{"/api/debts", `{"creditor":"Bank","total_amount":"1000","paid_amount":"400","status":"InAgreement","start_date":"2020-01-01"}`},
	}
	for _, s := range seed {
		if rec := doRequest(t, srv, http.MethodPost, s.path, s.body); rec.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d: %s", s.path, rec.Code, rec.Body.String())
		}
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/metrics?month=3&year=2024", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var snap metricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalIncome != "3500" || snap.TotalExpense != "800" || snap.Balance != "2700" {
		t.Fatalf("unexpected totals: %+v", snap)
	}
	if len(snap.IncomeBySource) != 2 || snap.IncomeBySource[0].Source != "Salary - A" {
		t.Fatalf("unexpected income breakdown: %+v", snap.IncomeBySource)
	}
	if snap.Debts.OutstandingInAgreement != "600" || snap.Debts.CountInAgreement != 1 {
		t.Fatalf("unexpected debt summary: %+v", snap.Debts)
	}

	// Debts are reported regardless of the requested month.
	rec = doRequest(t, srv, http.MethodGet, "/api/metrics?month=4&year=2024", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalIncome != "0" || snap.Debts.OutstandingInAgreement != "600" {
		t.Fatalf("unexpected off-month snapshot: %+v", snap)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/metrics?month=13&year=2024", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid month, got %d", rec.Code)
	}
}
