package reports

import (
	"context"

	"ledger/internal/core"
)

// Filter restricts an entry fetch. The zero Filter matches everything the
// store holds for the current scope.
type Filter struct {
	// Type limits the fetch to one entry type when non-empty.
	Type core.EntryType
	// Range bounds the fetch to an inclusive day window; either side may
	// be open.
	Range core.Range
}

// EntrySource is the outbound port to the queryable entry store. It must
// support unbounded fetches for the overall-balance and all-time cases.
type EntrySource interface {
	FetchEntries(ctx context.Context, f Filter) ([]core.Entry, error)
}
