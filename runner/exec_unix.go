//go:build !windows

package runner

import (
	"os"
	"os/exec"
	"syscall"
)

// applySysProcAttr puts the browser in its own process group so a signal
// to the Go process does not tear the child down mid-shutdown.
func applySysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate asks the browser to exit.
func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
