// Package rowsource adapts external row shapes (tracker workbooks, form
// payloads) into the denormalized plot import objects the orchestrator
// consumes. The import core never sees where a row came from.
package rowsource

import (
	"context"

	"github.com/tdobson/snowy-sub000/internal/importer"
)

// Source yields one plot import object per source row. Next returns
// io.EOF once the source is drained.
type Source interface {
	// Next returns the next well-formed plot import object. Malformed
	// rows are the adapter's to skip or surface; io.EOF ends iteration.
	Next(ctx context.Context) (*importer.PlotImport, error)
	Close() error
}
