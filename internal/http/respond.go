package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/stats"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type categoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type entryResponse struct {
	ID       int64             `json:"id"`
	Type     string            `json:"type"`
	Amount   int64             `json:"amount_cents"`
	Date     string            `json:"date"`
	Category *categoryResponse `json:"category,omitempty"`
	Note     string            `json:"note,omitempty"`
}

func toEntryResponse(e core.Entry) entryResponse {
	resp := entryResponse{
		ID:     e.ID,
		Type:   string(e.Type),
		Amount: e.Amount.Cents,
		Date:   e.Date.Key(),
		Note:   e.Note,
	}
	if e.Category != nil {
		resp.Category = &categoryResponse{ID: e.Category.ID, Name: e.Category.Name, Color: e.Category.Color}
	}
	return resp
}

type summaryResponse struct {
	TotalIncome      int64  `json:"total_income_cents"`
	TotalExpense     int64  `json:"total_expense_cents"`
	Balance          int64  `json:"balance_cents"`
	TransactionCount int    `json:"transaction_count"`
	OverallBalance   *int64 `json:"overall_balance_cents,omitempty"`
}

func toSummaryResponse(s stats.Summary) summaryResponse {
	resp := summaryResponse{
		TotalIncome:      s.TotalIncome.Cents,
		TotalExpense:     s.TotalExpense.Cents,
		Balance:          s.Balance.Cents,
		TransactionCount: s.TransactionCount,
	}
	if s.OverallBalance != nil {
		cents := s.OverallBalance.Cents
		resp.OverallBalance = &cents
	}
	return resp
}

type bucketResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value_cents"`
	Color string `json:"color"`
}

type trendPointResponse struct {
	Month   string `json:"month"`
	Key     string `json:"key"`
	Income  int64  `json:"income_cents"`
	Expense int64  `json:"expense_cents"`
	Balance int64  `json:"balance_cents"`
}

type changeResponse struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type comparisonResponse struct {
	Current  summaryResponse `json:"current"`
	Previous summaryResponse `json:"previous"`
	Change   changeResponse  `json:"change"`
}

// parseRange reads either a named preset or explicit start/end bounds
// from the query string. An empty query yields the open range.
func parseRange(r *http.Request) (core.Range, error) {
	q := r.URL.Query()

	if preset := q.Get("preset"); preset != "" {
		now := timeNow()
		switch preset {
		case "today":
			return core.Today(now), nil
		case "week":
			return core.ThisWeek(now), nil
		case "month":
			return core.ThisMonth(now), nil
		case "30d":
			return core.TrailingDays(now, 30), nil
		case "90d":
			return core.TrailingDays(now, 90), nil
		case "ytd":
			return core.YearToDate(now), nil
		default:
			return core.Range{}, fmt.Errorf("unknown preset %q", preset)
		}
	}

	var start, end core.Date
	if raw := q.Get("start"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.Range{}, fmt.Errorf("invalid start: %w", err)
		}
		start = d
	}
	if raw := q.Get("end"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.Range{}, fmt.Errorf("invalid end: %w", err)
		}
		end = d
	}
	return core.NewRange(start, end)
}

func parseBoundedRange(q map[string][]string, startKey, endKey string) (core.Range, error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	start, err := core.ParseDate(get(startKey))
	if err != nil {
		return core.Range{}, fmt.Errorf("invalid %s: %w", startKey, err)
	}
	end, err := core.ParseDate(get(endKey))
	if err != nil {
		return core.Range{}, fmt.Errorf("invalid %s: %w", endKey, err)
	}
	return core.NewRange(start, end)
}
