package transcoder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recode/internal/encoding"
	"recode/internal/fileutil"
	"recode/internal/logging"
	"recode/internal/queue"
	"recode/internal/testsupport"
	"recode/internal/transcoder"
)

type fakeEngine struct {
	fn func(ctx context.Context, job encoding.Job) error
}

func (f *fakeEngine) Transcode(ctx context.Context, job encoding.Job, _ encoding.ProgressFunc) error {
	return f.fn(ctx, job)
}

func statusOf(t *testing.T, store *queue.Store, filename string) queue.Status {
	t.Helper()
	entries, err := store.SelectAll(context.Background())
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	for _, entry := range entries {
		if entry.Filename == filename {
			return entry.Status
		}
	}
	t.Fatalf("entry %s not found", filename)
	return ""
}

func TestProcessMKVSuccessWithDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.DeleteOriginals = true
	store := testsupport.MustOpenStore(t, cfg)

	entry := queue.Entry{Path: filepath.Join(cfg.ScanRoot, "movies"), Filename: "movie.mkv", Transcode: queue.FlagTranscode, Status: queue.StatusQueued}
	testsupport.SeedEntry(t, store, entry)
	source := entry.SourcePath()
	testsupport.WriteFile(t, source, 4096)

	var observedDuringEngine queue.Status
	engine := &fakeEngine{fn: func(ctx context.Context, job encoding.Job) error {
		observedDuringEngine = statusOf(t, store, "movie.mkv")
		testsupport.WriteFile(t, job.Dest, 1024)
		return nil
	}}

	tr := transcoder.New(cfg, store, engine, logging.Nop())
	status, err := tr.Process(context.Background(), entry)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if status != queue.StatusDone {
		t.Fatalf("status = %s, want done", status)
	}
	if observedDuringEngine != queue.StatusActive {
		t.Fatalf("status during engine call = %s, want active", observedDuringEngine)
	}
	if got := statusOf(t, store, "movie.mkv"); got != queue.StatusDone {
		t.Fatalf("persisted status = %s, want done", got)
	}

	output := filepath.Join(cfg.ScanRoot, "movies", "movie.mp4")
	if !fileutil.Exists(output) {
		t.Fatal("expected output file")
	}
	if fileutil.Exists(source) {
		t.Fatal("expected original mkv to be deleted")
	}
}

func TestProcessFailureCleansPartialOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	entry := queue.Entry{Path: cfg.ScanRoot, Filename: "movie.mkv", Transcode: queue.FlagTranscode, Status: queue.StatusQueued}
	testsupport.SeedEntry(t, store, entry)
	testsupport.WriteFile(t, entry.SourcePath(), 2048)

	engine := &fakeEngine{fn: func(ctx context.Context, job encoding.Job) error {
		testsupport.WriteFile(t, job.Dest, 100)
		return errors.New("encoder exploded")
	}}

	tr := transcoder.New(cfg, store, engine, logging.Nop())
	status, err := tr.Process(context.Background(), entry)
	if err != nil {
		t.Fatalf("engine failure must not abort the run: %v", err)
	}
	if status != queue.StatusFailed {
		t.Fatalf("status = %s, want failed", status)
	}
	if fileutil.Exists(filepath.Join(cfg.ScanRoot, "movie.mp4")) {
		t.Fatal("partial output must be removed")
	}

	summary, err := store.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if summary.Counts[queue.StatusFailed] != 1 {
		t.Fatalf("failed count = %d, want 1", summary.Counts[queue.StatusFailed])
	}
	if len(summary.Failed) != 1 || summary.Failed[0].Filename != "movie.mkv" {
		t.Fatalf("unexpected failed list: %v", summary.Failed)
	}
}

func TestProcessMP4RenamesIntermediateOverOriginal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.DeleteOriginals = true
	store := testsupport.MustOpenStore(t, cfg)

	entry := queue.Entry{Path: cfg.ScanRoot, Filename: "clip.mp4", Transcode: queue.FlagTranscode, Status: queue.StatusQueued}
	testsupport.SeedEntry(t, store, entry)
	source := entry.SourcePath()
	testsupport.WriteFile(t, source, 4096)

	engine := &fakeEngine{fn: func(ctx context.Context, job encoding.Job) error {
		if filepath.Ext(job.Dest) != transcoder.IntermediateSuffix {
			t.Fatalf("mp4 output must use the intermediate suffix, got %s", job.Dest)
		}
		testsupport.WriteFile(t, job.Dest, 512)
		return nil
	}}

	tr := transcoder.New(cfg, store, engine, logging.Nop())
	if _, err := tr.Process(context.Background(), entry); err != nil {
		t.Fatalf("Process: %v", err)
	}

	info, err := os.Stat(source)
	if err != nil {
		t.Fatalf("stat original: %v", err)
	}
	if info.Size() != 512 {
		t.Fatalf("original size = %d, want replaced content", info.Size())
	}
	if fileutil.Exists(filepath.Join(cfg.ScanRoot, "clip.h265")) {
		t.Fatal("intermediate must be gone after rename")
	}
}

func TestProcessKeepsOriginalWithoutDeleteFlag(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	entry := queue.Entry{Path: cfg.ScanRoot, Filename: "movie.mkv", Transcode: queue.FlagTranscode, Status: queue.StatusQueued}
	testsupport.SeedEntry(t, store, entry)
	testsupport.WriteFile(t, entry.SourcePath(), 2048)

	engine := &fakeEngine{fn: func(ctx context.Context, job encoding.Job) error {
		testsupport.WriteFile(t, job.Dest, 512)
		return nil
	}}

	tr := transcoder.New(cfg, store, engine, logging.Nop())
	if _, err := tr.Process(context.Background(), entry); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !fileutil.Exists(entry.SourcePath()) {
		t.Fatal("original must survive when delete is disabled")
	}
}

func TestRunContinuesPastEngineFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	entries := []queue.Entry{
		{Path: cfg.ScanRoot, Filename: "bad.mkv", Transcode: queue.FlagTranscode, Status: queue.StatusQueued},
		{Path: cfg.ScanRoot, Filename: "good.mkv", Transcode: queue.FlagTranscode, Status: queue.StatusQueued},
	}
	for _, entry := range entries {
		testsupport.SeedEntry(t, store, entry)
		testsupport.WriteFile(t, entry.SourcePath(), 256)
	}

	engine := &fakeEngine{fn: func(ctx context.Context, job encoding.Job) error {
		if filepath.Base(job.Source) == "bad.mkv" {
			return errors.New("boom")
		}
		testsupport.WriteFile(t, job.Dest, 64)
		return nil
	}}

	tr := transcoder.New(cfg, store, engine, logging.Nop())
	if err := tr.Run(context.Background(), entries); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := statusOf(t, store, "bad.mkv"); got != queue.StatusFailed {
		t.Fatalf("bad.mkv status = %s, want failed", got)
	}
	if got := statusOf(t, store, "good.mkv"); got != queue.StatusDone {
		t.Fatalf("good.mkv status = %s, want done", got)
	}
}

func TestSweepIntermediatesReappliesRename(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.DeleteOriginals = true
	store := testsupport.MustOpenStore(t, cfg)

	entry := queue.Entry{Path: cfg.ScanRoot, Filename: "clip.mp4", Transcode: queue.FlagTranscode, Status: queue.StatusDone}
	testsupport.SeedEntry(t, store, entry)
	testsupport.WriteFile(t, entry.SourcePath(), 4096)
	testsupport.WriteFile(t, filepath.Join(cfg.ScanRoot, "clip.h265"), 512)

	tr := transcoder.New(cfg, store, &fakeEngine{fn: func(context.Context, encoding.Job) error { return nil }}, logging.Nop())
	if err := tr.SweepIntermediates(context.Background()); err != nil {
		t.Fatalf("SweepIntermediates: %v", err)
	}

	info, err := os.Stat(entry.SourcePath())
	if err != nil {
		t.Fatalf("stat original: %v", err)
	}
	if info.Size() != 512 {
		t.Fatalf("original size = %d, want intermediate content", info.Size())
	}
	if fileutil.Exists(filepath.Join(cfg.ScanRoot, "clip.h265")) {
		t.Fatal("intermediate must be consumed by the sweep")
	}
}
