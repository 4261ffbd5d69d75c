package encoding

import "context"

// Job describes one transcode: source file, destination file, and the title
// written into the output metadata.
type Job struct {
	Source string
	Dest   string
	Title  string
}

// Progress is one parsed update from the engine's progress stream.
type Progress struct {
	Frame   int64
	FPS     float64
	Size    string
	Time    string
	Bitrate string
	Speed   string
}

// ProgressFunc receives progress updates during a transcode.
type ProgressFunc func(Progress)

// Engine runs a transcode to completion. The call blocks until the engine
// succeeds or fails; there is no timeout beyond ctx.
type Engine interface {
	Transcode(ctx context.Context, job Job, progress ProgressFunc) error
}
