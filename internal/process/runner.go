package process

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
	"github.com/ytget/yt-clipper/internal/progress"
)

// Runner defaults
const (
	DefaultWaitDelay = 2 * time.Second
	DiagnosticLines  = 12
	unknownExitCode  = -1
)

// LineHandler receives one segmented output line
type LineHandler func(line string)

// Invocation describes one external process run
type Invocation struct {
	Phase    model.Phase
	Path     string
	Args     []string
	OnStdout LineHandler
	OnStderr LineHandler
}

// Runner starts processes and records their pid in a Slot
type Runner struct {
	slot      *Slot
	logger    *slog.Logger
	waitDelay time.Duration
}

// NewRunner creates a runner bound to slot
func NewRunner(slot *Slot, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		slot:      slot,
		logger:    logger,
		waitDelay: DefaultWaitDelay,
	}
}

// Run spawns the invocation and blocks until it exits and both output
// listeners have drained. Start failures return *model.SpawnError, non-zero
// exits return *model.ExecutionError carrying the tail of stderr.
func (r *Runner) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.WaitDelay = r.waitDelay

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	tail := newTail(DiagnosticLines)

	var wg sync.WaitGroup
	wg.Add(2)
	go listen(&wg, stdoutR, inv.OnStdout)
	go listen(&wg, stderrR, func(line string) {
		tail.add(line)
		if inv.OnStderr != nil {
			inv.OnStderr(line)
		}
	})

	closeStreams := func() {
		stdoutW.Close()
		stderrW.Close()
		wg.Wait()
	}

	if err := cmd.Start(); err != nil {
		closeStreams()
		return &model.SpawnError{Phase: inv.Phase, Path: inv.Path, Err: err}
	}

	proc := cmd.Process
	pid := proc.Pid
	r.slot.SetProcess(proc)

	// A cancel that raced with the spawn found no process to kill
	if r.slot.Cancelled() {
		if err := platform.KillProcess(proc); err != nil {
			r.logger.Warn("failed to stop process after cancel", "pid", pid, "error", err)
		}
	}

	r.logger.Debug("process started", "phase", inv.Phase, "pid", pid, "path", inv.Path, "args", inv.Args)

	waitErr := cmd.Wait()
	// The process is reaped; drop it before draining output so a slow
	// consumer never leaves it reachable for cancellation
	r.slot.ClearProcess(proc)
	closeStreams()

	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// The process exited cleanly but a child kept the output open
		r.logger.Warn("process output closed late", "phase", inv.Phase, "pid", pid)
		waitErr = nil
	}
	if waitErr == nil {
		r.logger.Debug("process finished", "phase", inv.Phase, "pid", pid)
		return nil
	}

	exitCode := unknownExitCode
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	r.logger.Debug("process failed", "phase", inv.Phase, "pid", pid, "exit_code", exitCode, "error", waitErr)
	return &model.ExecutionError{
		Phase:    inv.Phase,
		ExitCode: exitCode,
		Stderr:   tail.String(),
		Err:      waitErr,
	}
}

// listen forwards every line of r to fn. Once decoding stops the rest of the
// stream is discarded so the writer never blocks.
func listen(wg *sync.WaitGroup, r *io.PipeReader, fn LineHandler) {
	defer wg.Done()
	defer r.Close()

	if fn == nil {
		fn = func(string) {}
	}
	if err := progress.ReadLines(r, fn); err != nil {
		io.Copy(io.Discard, r)
	}
}

// tail keeps the last n lines written to it
type tail struct {
	mu    sync.Mutex
	n     int
	lines []string
}

func newTail(n int) *tail {
	return &tail{n: n}
}

func (t *tail) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

func (t *tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}
