package platform

import (
	"errors"
	"fmt"
	"os"
)

// KillProcess forcibly stops proc. A process that already exited and was
// reaped is not an error.
func KillProcess(proc *os.Process) error {
	if proc == nil {
		return errors.New("no process to kill")
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill process %d: %w", proc.Pid, err)
	}
	return nil
}
