// Package export defines the outbound port for pushing entries to an
// external spreadsheet or backup target.
package export

import (
	"context"

	"ledger/internal/core"
)

// EntryAppender appends one entry row to the export target and returns an
// opaque reference to the written row.
type EntryAppender interface {
	Append(ctx context.Context, e core.Entry) (rowRef string, err error)
}
