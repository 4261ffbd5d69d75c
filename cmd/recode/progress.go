package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"recode/internal/encoding"
	"recode/internal/transcoder"
)

// attachProgress wires engine progress into a terminal spinner when stdout
// is interactive. Without a hook the transcoder logs progress at debug
// level instead.
func attachProgress(tr *transcoder.Transcoder) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("transcoding"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionClearOnFinish(),
	)
	tr.SetProgressFunc(func(update encoding.Progress) {
		bar.Describe(fmt.Sprintf("frame=%d fps=%.0f size=%s time=%s bitrate=%s speed=%s",
			update.Frame, update.FPS, update.Size, update.Time, update.Bitrate, update.Speed))
		_ = bar.Add(1)
	})
}
