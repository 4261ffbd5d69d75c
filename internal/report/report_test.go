package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"recode/internal/logging"
	"recode/internal/queue"
	"recode/internal/report"
	"recode/internal/testsupport"
)

func TestSummaryLine(t *testing.T) {
	summary := queue.Summary{Counts: map[queue.Status]int{
		queue.StatusDone:    1,
		queue.StatusSkipped: 1,
	}}
	line := report.SummaryLine(summary)
	want := "1 done, 0 failed, 0 queued, 1 skipped, 0 unknown."
	if line != want {
		t.Fatalf("SummaryLine = %q, want %q", line, want)
	}
}

func TestWriteTableListsFailures(t *testing.T) {
	summary := queue.Summary{
		Counts: map[queue.Status]int{queue.StatusFailed: 1},
		Failed: []queue.Entry{{Path: "/media", Filename: "movie.mkv"}},
	}

	var buf bytes.Buffer
	report.WriteTable(&buf, summary)
	out := buf.String()
	if !strings.Contains(out, "failed") {
		t.Fatalf("missing failed row: %s", out)
	}
	if !strings.Contains(out, "/media/movie.mkv") {
		t.Fatalf("missing failure path: %s", out)
	}
}

func TestReportReadsStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedEntry(t, store, queue.Entry{
		Path: "/media", Filename: "a.mkv", Transcode: queue.FlagTranscode, Status: queue.StatusFailed,
	})

	reporter := report.New(store, logging.Nop())
	if err := reporter.Report(context.Background()); err != nil {
		t.Fatalf("Report: %v", err)
	}
}
