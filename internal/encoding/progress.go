package encoding

import (
	"regexp"
	"strconv"
)

var (
	frameRegex   = regexp.MustCompile(`frame=\s*(\d+)`)
	fpsRegex     = regexp.MustCompile(`fps=\s*([\d.]+)`)
	sizeRegex    = regexp.MustCompile(`size=\s*(\S+)`)
	timeRegex    = regexp.MustCompile(`time=\s*(\d{2}:\d{2}:\d{2}\.?\d*)`)
	bitrateRegex = regexp.MustCompile(`bitrate=\s*(\S+)`)
	speedRegex   = regexp.MustCompile(`speed=\s*(\S+)`)
)

// ParseProgressLine extracts a Progress update from one ffmpeg stderr line.
// Lines without a frame counter are not progress lines and return false.
func ParseProgressLine(line string) (Progress, bool) {
	frameMatch := frameRegex.FindStringSubmatch(line)
	if frameMatch == nil {
		return Progress{}, false
	}

	var update Progress
	update.Frame, _ = strconv.ParseInt(frameMatch[1], 10, 64)
	if m := fpsRegex.FindStringSubmatch(line); m != nil {
		update.FPS, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := sizeRegex.FindStringSubmatch(line); m != nil {
		update.Size = m[1]
	}
	if m := timeRegex.FindStringSubmatch(line); m != nil {
		update.Time = m[1]
	}
	if m := bitrateRegex.FindStringSubmatch(line); m != nil {
		update.Bitrate = m[1]
	}
	if m := speedRegex.FindStringSubmatch(line); m != nil {
		update.Speed = m[1]
	}
	return update, true
}
