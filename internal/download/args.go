package download

import (
	"fmt"
	"strconv"

	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/progress"
	"github.com/ytget/yt-clipper/internal/quality"
)

// yt-dlp flags used for clip fetches
const (
	SectionsFlag            = "--download-sections"
	OutputFlag              = "-o"
	FormatFlag              = "-f"
	MergeOutputFormatFlag   = "--merge-output-format"
	NewlineFlag             = "--newline"
	ConcurrentFragmentsFlag = "--concurrent-fragments"
	ProgressTemplateFlag    = "--progress-template"

	// ConcurrentFragments is the number of fragments fetched in parallel
	ConcurrentFragments = 8
)

// SectionRange renders the *start-end selector for --download-sections
func SectionRange(start, end float64) string {
	return fmt.Sprintf("*%s-%s", formatSeconds(start), formatSeconds(end))
}

// FetchArgs builds the yt-dlp arguments that download [start, end) of url
// into output, merged into the requested container.
func FetchArgs(url string, start, end float64, sel quality.Selection, format model.ContainerFormat, output string) []string {
	return []string{
		SectionsFlag, SectionRange(start, end),
		OutputFlag, output,
		FormatFlag, sel.Format,
		MergeOutputFormatFlag, format.Ext(),
		NewlineFlag,
		ConcurrentFragmentsFlag, strconv.Itoa(ConcurrentFragments),
		ProgressTemplateFlag, progress.ProgressTemplate,
		url,
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
