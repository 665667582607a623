package progress

import (
	"bufio"
	"bytes"
	"io"
)

// MaxLineSize bounds a single progress line
const MaxLineSize = 1024 * 1024

// ScanLines is a bufio.SplitFunc that splits on either '\r' or '\n'. The
// encoder rewrites its status line with bare carriage returns while the
// downloader terminates records with line feeds. Segments are trimmed, empty
// segments (such as the gap inside "\r\n") are skipped and an unterminated
// remainder is returned at end of stream.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for {
		if atEOF && start >= len(data) {
			return len(data), nil, nil
		}

		i := bytes.IndexAny(data[start:], "\r\n")
		if i < 0 {
			if !atEOF {
				// Request more data, keep what was skipped
				return start, nil, nil
			}
			line := bytes.TrimSpace(data[start:])
			if len(line) == 0 {
				return len(data), nil, nil
			}
			return len(data), line, nil
		}

		line := bytes.TrimSpace(data[start : start+i])
		start += i + 1
		if len(line) > 0 {
			return start, line, nil
		}
	}
}

// NewScanner returns a scanner over r that uses ScanLines
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	scanner.Split(ScanLines)
	return scanner
}

// ReadLines calls fn for every segmented line until r is exhausted
func ReadLines(r io.Reader, fn func(line string)) error {
	scanner := NewScanner(r)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	return scanner.Err()
}
