// Package cleanup removes the files a clip job leaves behind.
package cleanup

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ytget/yt-clipper/internal/model"
)

// Candidates lists every path that may belong to a job, in removal order.
// Duplicates are dropped.
func Candidates(artifacts model.JobArtifacts) []string {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	if artifacts.Output != "" {
		add(artifacts.Output)
		add(artifacts.Output + model.PartSuffix)
	}
	if artifacts.Temp != "" {
		add(artifacts.Temp)
		add(artifacts.Temp + model.PartSuffix)
	}
	return paths
}

// Remove deletes the job's files. Missing files are skipped and other
// failures are logged, never returned. The removed paths are reported.
func Remove(artifacts model.JobArtifacts) []string {
	var removed []string
	for _, path := range Candidates(artifacts) {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("failed to remove job file", "path", path, "error", err)
		}
	}
	return removed
}
