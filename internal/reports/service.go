// Package reports orchestrates the statistics pipeline: it picks date
// windows, fetches entries from the EntrySource and feeds them through the
// pure aggregators in internal/stats. Independent fetches run
// concurrently; any failed fetch fails the whole operation, never a
// partial result.
package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
	"ledger/internal/stats"
)

// TrendMonths is the fixed length of the monthly trend series.
const TrendMonths = 12

// StatsOptions tunes a ComputeStats call.
type StatsOptions struct {
	// IncludeOverallBalance adds a second, unranged fetch whose
	// income-minus-expense value overrides the ranged balance. If that
	// fetch fails, the overall balance is simply omitted.
	IncludeOverallBalance bool
}

// Service composes the aggregators over an EntrySource.
type Service struct {
	source EntrySource
	now    func() time.Time
}

func NewService(source EntrySource) *Service {
	return &Service{source: source, now: time.Now}
}

// NewServiceAt builds a Service with a fixed reference clock, for callers
// that need deterministic "current month" semantics.
func NewServiceAt(source EntrySource, now func() time.Time) *Service {
	return &Service{source: source, now: now}
}

// ComputeStats fetches the entries in r and reduces them to a Summary.
func (s *Service) ComputeStats(ctx context.Context, r core.Range, opts StatsOptions) (stats.Summary, error) {
	entries, err := s.source.FetchEntries(ctx, Filter{Range: r})
	if err != nil {
		return stats.Summary{}, fmt.Errorf("fetch entries: %w", err)
	}
	summary := stats.Summarize(entries)

	if opts.IncludeOverallBalance {
		all, err := s.source.FetchEntries(ctx, Filter{})
		if err != nil {
			// Degrade to the ranged balance rather than failing the call.
			slog.WarnContext(ctx, "Overall balance fetch failed, using ranged balance",
				"error", err)
			return summary, nil
		}
		overall := stats.Summarize(all)
		balance := overall.TotalIncome.Sub(overall.TotalExpense)
		summary.OverallBalance = &balance
		summary.Balance = balance
	}

	return summary, nil
}

// CategoryBreakdown groups the expense entries in r by category name.
func (s *Service) CategoryBreakdown(ctx context.Context, r core.Range) ([]stats.CategoryBucket, error) {
	entries, err := s.source.FetchEntries(ctx, Filter{Type: core.Expense, Range: r})
	if err != nil {
		return nil, fmt.Errorf("fetch expense entries: %w", err)
	}
	return stats.CategoryBreakdown(entries), nil
}

// DailyExpenses builds the sparse per-day expense histogram for r. The
// fetch is not type-filtered; income entries are ignored at aggregation
// time.
func (s *Service) DailyExpenses(ctx context.Context, r core.Range) (map[string]core.Money, error) {
	entries, err := s.source.FetchEntries(ctx, Filter{Range: r})
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}
	return stats.DailyExpenses(entries), nil
}

// MonthlyTrends returns exactly TrendMonths points covering the calendar
// months ending at the current month, oldest first. The per-month fetches
// run in parallel; a failure on any month aborts the whole series.
func (s *Service) MonthlyTrends(ctx context.Context) ([]stats.TrendPoint, error) {
	now := s.now()
	points := make([]stats.TrendPoint, TrendMonths)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < TrendMonths; i++ {
		window := core.MonthWindow(now, TrendMonths-1-i)
		g.Go(func() error {
			entries, err := s.source.FetchEntries(gctx, Filter{Range: window})
			if err != nil {
				return fmt.Errorf("fetch month %s: %w", window.Start.MonthKey(), err)
			}
			summary := stats.Summarize(entries)
			points[i] = stats.TrendPoint{
				Month:   window.MonthLabel(),
				Key:     window.Start.MonthKey(),
				Income:  summary.TotalIncome,
				Expense: summary.TotalExpense,
				Balance: summary.TotalIncome.Sub(summary.TotalExpense),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Comparison runs ComputeStats over two independent ranges concurrently
// and derives the percentage deltas. Both sides use overall-balance mode.
// If either side fails the whole comparison fails, first error wins.
func (s *Service) Comparison(ctx context.Context, current, previous core.Range) (stats.Comparison, error) {
	var cur, prev stats.Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = s.ComputeStats(gctx, current, StatsOptions{IncludeOverallBalance: true})
		return err
	})
	g.Go(func() error {
		var err error
		prev, err = s.ComputeStats(gctx, previous, StatsOptions{IncludeOverallBalance: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return stats.Comparison{}, err
	}

	return stats.Compare(cur, prev), nil
}
