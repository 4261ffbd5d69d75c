package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"recode/internal/queue"
)

// Aggregator is the read-only queue surface the reporter consumes.
type Aggregator interface {
	Aggregate(ctx context.Context) (queue.Summary, error)
}

// Reporter renders aggregate queue results.
type Reporter struct {
	store  Aggregator
	logger *slog.Logger
}

// New returns a Reporter.
func New(store Aggregator, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{store: store, logger: logger}
}

// Report logs the final per-status counts and one line per failed file.
func (r *Reporter) Report(ctx context.Context) error {
	summary, err := r.store.Aggregate(ctx)
	if err != nil {
		return fmt.Errorf("aggregate queue: %w", err)
	}

	r.logger.Info(SummaryLine(summary))
	for _, entry := range summary.Failed {
		r.logger.Info("failed to transcode", "path", entry.SourcePath())
	}
	return nil
}

// summaryOrder fixes the rendering order of statuses in the summary line
// and table.
var summaryOrder = []queue.Status{
	queue.StatusDone,
	queue.StatusFailed,
	queue.StatusQueued,
	queue.StatusSkipped,
	queue.StatusUnknown,
}

// SummaryLine renders the one-line aggregate count.
func SummaryLine(summary queue.Summary) string {
	line := ""
	for i, status := range summaryOrder {
		if i > 0 {
			line += ", "
		}
		line += fmt.Sprintf("%d %s", summary.Counts[status], status)
	}
	return line + "."
}

// WriteTable renders the summary as a table followed by the failure list.
func WriteTable(w io.Writer, summary queue.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Status", "Count"})
	for _, status := range summaryOrder {
		tw.AppendRow(table.Row{string(status), summary.Counts[status]})
	}
	if active := summary.Counts[queue.StatusActive]; active > 0 {
		tw.AppendRow(table.Row{string(queue.StatusActive), active})
	}
	tw.AppendFooter(table.Row{"total", summary.Total()})
	tw.Render()

	if len(summary.Failed) == 0 {
		return
	}
	red := color.New(color.FgRed)
	fmt.Fprintln(w)
	red.Fprintln(w, "Failed transcodes:")
	for _, entry := range summary.Failed {
		red.Fprintf(w, "  %s\n", entry.SourcePath())
	}
}
