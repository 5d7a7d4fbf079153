package ffmpeg

import (
	"strconv"
	"strings"
)

// ParseProgress scans a -progress key=value dump and returns the latest
// reported elapsed time in seconds. The transcoder appends a new block
// roughly every half second, so the last marker in the file wins.
//
// out_time_us is preferred; out_time_ms is accepted as a synonym (the
// transcoder emits microseconds under both keys); the wall-clock
// out_time=HH:MM:SS.micro form is the fallback.
func ParseProgress(data []byte) (float64, bool) {
	var (
		seconds float64
		found   bool
	)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			us, err := strconv.ParseInt(value, 10, 64)
			if err != nil || us < 0 {
				continue
			}
			seconds = float64(us) / 1e6
			found = true
		case "out_time":
			if s, ok := parseClock(value); ok {
				seconds = s
				found = true
			}
		}
	}
	return seconds, found
}

// Percentage maps an elapsed time onto 0..100 for a known total, clamped
// at 100 and truncated toward zero. It returns -1 when the total is
// unknown, which displays as an indeterminate status.
func Percentage(elapsed, total float64) int {
	if total <= 0 {
		return -1
	}
	pct := int(elapsed / total * 100)
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// parseClock parses "HH:MM:SS.micro".
func parseClock(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || h < 0 {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + sec, true
}
