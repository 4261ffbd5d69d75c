package deps_test

import (
	"path/filepath"
	"strings"
	"testing"

	"recode/internal/deps"
	"recode/internal/testsupport"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "ffmpeg", Command: "definitely-not-a-real-binary"},
		{Name: "exiftool", Command: ""},
	})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("nonexistent binary must not be available")
	}
	if statuses[1].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", statuses[1].Detail)
	}
}

func TestVerifyPassesWithStubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin := filepath.Join(t.TempDir(), "bin")
	testsupport.StubBinary(t, bin, "ffmpeg", "exit 0")
	testsupport.StubBinary(t, bin, "exiftool", "exit 0")

	if err := deps.Verify(deps.Required(cfg)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyNamesMissingBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.FFmpegBinary = "no-such-ffmpeg"
	cfg.ExiftoolBinary = "no-such-exiftool"

	err := deps.Verify(deps.Required(cfg))
	if err == nil {
		t.Fatal("expected error for missing binaries")
	}
	if !strings.Contains(err.Error(), "ffmpeg") || !strings.Contains(err.Error(), "exiftool") {
		t.Fatalf("error must name missing binaries: %v", err)
	}
}
