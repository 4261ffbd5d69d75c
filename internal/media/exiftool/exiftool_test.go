package exiftool_test

import (
	"context"
	"path/filepath"
	"testing"

	"recode/internal/media/exiftool"
	"recode/internal/testsupport"
)

func TestCompressorIDNormalizesOutput(t *testing.T) {
	dir := t.TempDir()
	testsupport.StubBinary(t, filepath.Join(dir, "bin"), "exiftool", `echo " HVC1 "`)

	tool := exiftool.New("exiftool")
	tag, err := tool.CompressorID(context.Background(), filepath.Join(dir, "clip.mp4"))
	if err != nil {
		t.Fatalf("CompressorID: %v", err)
	}
	if tag != "hvc1" {
		t.Fatalf("tag = %q, want %q", tag, "hvc1")
	}
}

func TestCompressorIDFailureSurfacesError(t *testing.T) {
	dir := t.TempDir()
	testsupport.StubBinary(t, filepath.Join(dir, "bin"), "exiftool", "exit 1")

	tool := exiftool.New("exiftool")
	if _, err := tool.CompressorID(context.Background(), filepath.Join(dir, "notes.txt")); err == nil {
		t.Fatal("expected error for non-media input")
	}
}

func TestReadRejectsEmptyPath(t *testing.T) {
	tool := exiftool.New("")
	if _, err := tool.DocType(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
