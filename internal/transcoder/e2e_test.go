package transcoder_test

import (
	"context"
	"path/filepath"
	"testing"

	"recode/internal/classify"
	"recode/internal/encoding"
	"recode/internal/fileutil"
	"recode/internal/logging"
	"recode/internal/queue"
	"recode/internal/report"
	"recode/internal/scanner"
	"recode/internal/testsupport"
	"recode/internal/transcoder"
)

type tableProber struct {
	compressors map[string]string
}

func (p *tableProber) CompressorID(_ context.Context, path string) (string, error) {
	return p.compressors[filepath.Base(path)], nil
}

func (p *tableProber) DocType(context.Context, string) (string, error) {
	return "", nil
}

// Scan a root holding one MKV and one already-transcoded MP4, run an
// unlimited batch with delete enabled, and verify the final aggregate.
func TestScanTranscodeAggregate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.DeleteOriginals = true
	cfg.Batch = "0"
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	movie := filepath.Join(cfg.ScanRoot, "movie.mkv")
	clip := filepath.Join(cfg.ScanRoot, "clip.mp4")
	testsupport.WriteFile(t, movie, 4096)
	testsupport.WriteFile(t, clip, 2048)

	prober := &tableProber{compressors: map[string]string{"clip.mp4": "hvc1"}}
	classifier := classify.New(prober, logging.Nop())
	sc := scanner.New(cfg, store, classifier, logging.Nop())
	if err := sc.Scan(ctx); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	entries, err := store.SelectBatch(ctx, cfg.ResolveBatch(logging.Nop()))
	if err != nil {
		t.Fatalf("SelectBatch: %v", err)
	}
	if len(entries) != 1 || entries[0].Filename != "movie.mkv" {
		t.Fatalf("only movie.mkv should be batch-eligible, got %v", entries)
	}

	engine := &fakeEngine{fn: func(ctx context.Context, job encoding.Job) error {
		testsupport.WriteFile(t, job.Dest, 1024)
		return nil
	}}
	tr := transcoder.New(cfg, store, engine, logging.Nop())
	if err := tr.Run(ctx, entries); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !fileutil.Exists(filepath.Join(cfg.ScanRoot, "movie.mp4")) {
		t.Fatal("expected movie.mp4 output")
	}
	if fileutil.Exists(movie) {
		t.Fatal("expected movie.mkv to be removed")
	}
	if !fileutil.Exists(clip) {
		t.Fatal("skipped clip.mp4 must be untouched")
	}

	summary, err := store.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	want := map[queue.Status]int{
		queue.StatusDone:    1,
		queue.StatusSkipped: 1,
		queue.StatusFailed:  0,
		queue.StatusQueued:  0,
		queue.StatusUnknown: 0,
		queue.StatusActive:  0,
	}
	for status, count := range want {
		if summary.Counts[status] != count {
			t.Fatalf("count[%s] = %d, want %d", status, summary.Counts[status], count)
		}
	}

	line := report.SummaryLine(summary)
	if line != "1 done, 0 failed, 0 queued, 1 skipped, 0 unknown." {
		t.Fatalf("unexpected summary line: %q", line)
	}
}
