package encoding

import (
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	job := Job{
		Source: "/media/movie.mkv",
		Dest:   "/media/movie.mp4",
		Title:  "movie",
	}
	args := BuildArgs(job)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i /media/movie.mkv",
		"-codec:v libx265",
		"-vtag hvc1",
		"-codec:a copy",
		"-metadata title=movie",
		"-metadata comment=",
		"-f mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "/media/movie.mp4" {
		t.Fatalf("destination must be the final argument: %v", args)
	}
}

func TestParseProgressLine(t *testing.T) {
	line := "frame=  512 fps= 24 q=28.0 size=    2048KiB time=00:01:02.33 bitrate=1000.1kbits/s speed=1.25x"
	update, ok := ParseProgressLine(line)
	if !ok {
		t.Fatal("expected progress line to parse")
	}
	if update.Frame != 512 {
		t.Fatalf("frame = %d, want 512", update.Frame)
	}
	if update.FPS != 24 {
		t.Fatalf("fps = %v, want 24", update.FPS)
	}
	if update.Size != "2048KiB" {
		t.Fatalf("size = %q", update.Size)
	}
	if update.Time != "00:01:02.33" {
		t.Fatalf("time = %q", update.Time)
	}
	if update.Bitrate != "1000.1kbits/s" {
		t.Fatalf("bitrate = %q", update.Bitrate)
	}
	if update.Speed != "1.25x" {
		t.Fatalf("speed = %q", update.Speed)
	}
}

func TestParseProgressLineRejectsNonProgress(t *testing.T) {
	if _, ok := ParseProgressLine("Stream mapping:"); ok {
		t.Fatal("non-progress line must not parse")
	}
}
