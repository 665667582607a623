package progress

import (
	"math"
	"strconv"
	"strings"

	"github.com/ytget/yt-clipper/internal/model"
)

// Structured record format emitted by the downloader's progress template:
// PROGRESS|<percent>|<speed>|<eta>|<total>
const (
	StructuredPrefix    = "PROGRESS|"
	StructuredSeparator = "|"
	StructuredFields    = 5

	NotAvailable     = "NA"
	SpeedPlaceholder = "Calculating..."
	ETAPlaceholder   = "--:--"
)

// ProgressTemplate is passed to the downloader's --progress-template flag
const ProgressTemplate = StructuredPrefix +
	"%(progress._percent_str)s|%(progress._speed_str)s|%(progress._eta_str)s|%(progress._total_bytes_estimate_str)s"

// ParseStructured decodes one downloader progress record. Lines without the
// prefix or with too few fields yield no record; a malformed percent decodes
// as 0.
func ParseStructured(line string) (model.ProgressRecord, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, StructuredPrefix) {
		return model.ProgressRecord{}, false
	}

	parts := strings.Split(line, StructuredSeparator)
	if len(parts) < StructuredFields {
		return model.ProgressRecord{}, false
	}

	percentStr := strings.TrimSuffix(strings.TrimSpace(parts[1]), "%")
	percent, err := strconv.ParseFloat(strings.TrimSpace(percentStr), 64)
	if err != nil || math.IsNaN(percent) || math.IsInf(percent, 0) {
		percent = 0
	}

	speed := strings.TrimSpace(parts[2])
	if speed == NotAvailable {
		speed = SpeedPlaceholder
	}
	eta := strings.TrimSpace(parts[3])
	if eta == NotAvailable {
		eta = ETAPlaceholder
	}

	return model.ProgressRecord{
		Percent:    percent,
		Speed:      speed,
		ETA:        eta,
		Downloaded: FormatPercent(percent),
		Total:      strings.TrimSpace(parts[4]),
	}, true
}

// FormatPercent renders a percentage without trailing zeros: 45 -> "45%"
func FormatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', -1, 64) + "%"
}
