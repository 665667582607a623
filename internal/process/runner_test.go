package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ytget/yt-clipper/internal/model"
)

// writeScript creates an executable shell script in a temp dir
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on Windows")
	}

	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}
	return path
}

// lineRecorder collects lines from concurrent handlers
type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *lineRecorder) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *lineRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func TestRunner_RunStreamsBothOutputs(t *testing.T) {
	script := writeScript(t, `printf 'one\ntwo\r three '
echo 'err-line' >&2`)

	runner := NewRunner(NewSlot(), nil)
	var stdout, stderr lineRecorder

	err := runner.Run(context.Background(), Invocation{
		Phase:    model.PhaseFetch,
		Path:     script,
		OnStdout: stdout.add,
		OnStderr: stderr.add,
	})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	want := []string{"one", "two", "three"}
	got := stdout.get()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected stdout lines %v, got %v", want, got)
	}
	if got := stderr.get(); len(got) != 1 || got[0] != "err-line" {
		t.Errorf("Expected stderr [err-line], got %v", got)
	}
}

func TestRunner_RunNonZeroExit(t *testing.T) {
	script := writeScript(t, `echo 'first problem' >&2
echo 'Unsupported URL' >&2
exit 3`)

	runner := NewRunner(NewSlot(), nil)
	err := runner.Run(context.Background(), Invocation{Phase: model.PhaseEncode, Path: script})

	if !errors.Is(err, model.ErrExecutionFailure) {
		t.Fatalf("Expected ErrExecutionFailure, got %v", err)
	}

	var execErr *model.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Expected *model.ExecutionError, got %T", err)
	}
	if execErr.Phase != model.PhaseEncode {
		t.Errorf("Expected encode phase, got %s", execErr.Phase)
	}
	if execErr.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", execErr.ExitCode)
	}
	if !strings.Contains(execErr.Stderr, "Unsupported URL") {
		t.Errorf("Expected stderr tail to carry the diagnostic, got %q", execErr.Stderr)
	}
}

func TestRunner_RunStderrTailIsBounded(t *testing.T) {
	script := writeScript(t, `i=0
while [ $i -lt 40 ]; do echo "line $i" >&2; i=$((i+1)); done
exit 1`)

	runner := NewRunner(NewSlot(), nil)
	err := runner.Run(context.Background(), Invocation{Phase: model.PhaseFetch, Path: script})

	var execErr *model.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Expected *model.ExecutionError, got %v", err)
	}

	lines := strings.Split(execErr.Stderr, "\n")
	if len(lines) != DiagnosticLines {
		t.Errorf("Expected %d tail lines, got %d", DiagnosticLines, len(lines))
	}
	if lines[len(lines)-1] != "line 39" {
		t.Errorf("Expected last line 'line 39', got %q", lines[len(lines)-1])
	}
}

func TestRunner_RunSpawnFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-tool")

	runner := NewRunner(NewSlot(), nil)
	err := runner.Run(context.Background(), Invocation{Phase: model.PhaseFetch, Path: missing})

	if !errors.Is(err, model.ErrSpawnFailure) {
		t.Fatalf("Expected ErrSpawnFailure, got %v", err)
	}

	var spawnErr *model.SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("Expected *model.SpawnError, got %T", err)
	}
	if spawnErr.Path != missing {
		t.Errorf("Expected path %s, got %s", missing, spawnErr.Path)
	}
}

func TestRunner_RunRecordsPID(t *testing.T) {
	script := writeScript(t, `echo ready`)

	slot := NewSlot()
	runner := NewRunner(slot, nil)

	var seen int
	err := runner.Run(context.Background(), Invocation{
		Phase: model.PhaseFetch,
		Path:  script,
		OnStdout: func(string) {
			seen = slot.PID()
		},
	})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if seen <= 0 {
		t.Errorf("Expected pid recorded while running, got %d", seen)
	}
	if slot.PID() != 0 {
		t.Errorf("Expected pid cleared after exit, got %d", slot.PID())
	}
}

func TestRunner_RunKilledAfterCancel(t *testing.T) {
	script := writeScript(t, `exec sleep 30`)

	slot := NewSlot()
	if err := slot.Begin("job"); err != nil {
		t.Fatal(err)
	}
	slot.Cancel()

	runner := NewRunner(slot, nil)
	err := runner.Run(context.Background(), Invocation{Phase: model.PhaseFetch, Path: script})

	if !errors.Is(err, model.ErrExecutionFailure) {
		t.Errorf("Expected killed process to report ErrExecutionFailure, got %v", err)
	}
}

func TestRunner_RunReleasesProcessBeforeDrainingOutput(t *testing.T) {
	script := writeScript(t, `echo 'frame=1 time=00:00:01.00 bitrate=1kbits/s' >&2
exit 0`)

	slot := NewSlot()
	runner := NewRunner(slot, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), Invocation{
			Phase: model.PhaseEncode,
			Path:  script,
			OnStderr: func(string) {
				once.Do(func() { close(started) })
				<-release
			},
		})
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("Handler never received output")
	}

	// The consumer is still blocked, but the exited process must no longer
	// be reachable through the slot
	deadline := time.Now().Add(5 * time.Second)
	for slot.PID() != 0 {
		if time.Now().After(deadline) {
			close(release)
			t.Fatalf("Slot still holds pid %d after the process exited", slot.PID())
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case err := <-done:
		t.Fatalf("Run returned before the consumer finished: %v", err)
	default:
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("Expected success, got %v", err)
	}
}
