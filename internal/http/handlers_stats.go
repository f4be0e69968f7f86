package http

import (
	"log/slog"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/reports"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := reports.StatsOptions{
		IncludeOverallBalance: r.URL.Query().Get("overall") == "true",
	}

	cacheKey := summaryCacheKey(rng, opts)
	if cached, ok := s.summaryCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.reports.ComputeStats(r.Context(), rng, opts)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	resp := toSummaryResponse(summary)
	s.summaryCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func summaryCacheKey(rng core.Range, opts reports.StatsOptions) string {
	key := rng.Start.Key() + ".." + rng.End.Key()
	if opts.IncludeOverallBalance {
		key += "+overall"
	}
	return key
}

func (s *Server) handleStatsCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := s.reports.CategoryBreakdown(r.Context(), rng)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute category breakdown", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute category breakdown")
		return
	}

	resp := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		resp = append(resp, bucketResponse{Name: b.Name, Value: b.Value.Cents, Color: b.Color})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	daily, err := s.reports.DailyExpenses(r.Context(), rng)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute daily expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute daily expenses")
		return
	}

	resp := make(map[string]int64, len(daily))
	for day, total := range daily {
		resp[day] = total.Cents
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatsTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	points, ok := s.trendsCache.Get("trends")
	if !ok {
		var err error
		points, err = s.reports.MonthlyTrends(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to compute monthly trends", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to compute monthly trends")
			return
		}
		s.trendsCache.Set("trends", points)
	}

	resp := make([]trendPointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, trendPointResponse{
			Month:   p.Month,
			Key:     p.Key,
			Income:  p.Income.Cents,
			Expense: p.Expense.Cents,
			Balance: p.Balance.Cents,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatsComparison(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	var current, previous core.Range
	if len(q) == 0 {
		// Default to this month against last month.
		current = core.MonthWindow(timeNow(), 0)
		previous = core.MonthWindow(timeNow(), 1)
	} else {
		var err error
		current, err = parseBoundedRange(q, "current_start", "current_end")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		previous, err = parseBoundedRange(q, "previous_start", "previous_end")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	cmp, err := s.reports.Comparison(r.Context(), current, previous)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute comparison", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute comparison")
		return
	}

	writeJSON(w, http.StatusOK, comparisonResponse{
		Current:  toSummaryResponse(cmp.Current),
		Previous: toSummaryResponse(cmp.Previous),
		Change: changeResponse{
			Income:   cmp.Change.Income,
			Expenses: cmp.Change.Expenses,
			Balance:  cmp.Change.Balance,
		},
	})
}
