package host

import (
	"errors"
	"os/exec"
	"runtime"
)

// Reaper force-terminates every running process with a given image name.
type Reaper interface {
	Kill(name string) error
}

// CommandReaper kills processes with taskkill on Windows and pkill elsewhere.
type CommandReaper struct{}

// Kill terminates all processes named name. Having nothing to kill is not an
// error.
func (CommandReaper) Kill(name string) error {
	if name == "" {
		return nil
	}
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("taskkill", "/f", "/im", name)
	} else {
		cmd = exec.Command("pkill", "-9", "-x", name)
	}
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// pkill: no process matched
		return nil
	}
	if runtime.GOOS == "windows" && errors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
		// taskkill: process not found
		return nil
	}
	return err
}
