// Package report persists or renders computed insight tables. The
// pipeline's obligation ends at the Report struct; everything here is
// a sink consuming it.
package report

import (
	"context"

	"github.com/quizsight/quizsight/internal/insight"
)

type Sink interface {
	Write(ctx context.Context, importID string, rep insight.Report) error
}
