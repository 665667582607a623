package progress

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ytget/yt-clipper/internal/model"
)

// Encoder status line tokens, e.g.
// frame=  120 fps= 30 q=28.0 size=  512kB time=00:00:04.00 bitrate=1048.6kbits/s speed=1.0x
const (
	TimeToken       = "time="
	BitrateToken    = "bitrate="
	DefaultBitrate  = "0 kbits/s"
	EncodingETA     = "Encoding"
	SecondsTemplate = "%.1fs"
)

// ParseEncoder decodes an encoder status line against the total target
// duration in seconds. Lines without a parseable time= token, or an unknown
// total, yield no record. The percent is clamped to [0, 100].
func ParseEncoder(line string, totalSeconds float64) (model.ProgressRecord, bool) {
	if totalSeconds <= 0 {
		return model.ProgressRecord{}, false
	}

	var (
		current float64
		hasTime bool
		bitrate = DefaultBitrate
	)
	for _, field := range strings.Fields(line) {
		switch {
		case strings.HasPrefix(field, TimeToken):
			seconds, ok := ParseClock(strings.TrimPrefix(field, TimeToken))
			if ok {
				current, hasTime = seconds, true
			}
		case strings.HasPrefix(field, BitrateToken):
			bitrate = strings.TrimPrefix(field, BitrateToken)
		}
	}
	if !hasTime {
		return model.ProgressRecord{}, false
	}

	percent := current / totalSeconds * 100
	percent = min(max(percent, 0), 100)

	return model.ProgressRecord{
		Percent:    percent,
		Speed:      bitrate,
		ETA:        EncodingETA,
		Downloaded: fmt.Sprintf(SecondsTemplate, current),
		Total:      fmt.Sprintf(SecondsTemplate, totalSeconds),
	}, true
}

// IsEncoderStatus reports whether a line looks like an encoder status line.
// The downloader relays these on stderr while it merges or cuts sections.
func IsEncoderStatus(line string) bool {
	return strings.Contains(line, TimeToken) && strings.Contains(line, BitrateToken)
}

// ParseClock converts HH:MM:SS[.fraction] to seconds
func ParseClock(value string) (float64, bool) {
	sign := 1.0
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		sign, value = -1, rest
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}

	var total float64
	for i, unit := range []float64{3600, 60, 1} {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, false
		}
		total += v * unit
	}
	return sign * total, true
}
