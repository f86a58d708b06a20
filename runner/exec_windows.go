//go:build windows

package runner

import (
	"os"
	"os/exec"
)

func applySysProcAttr(cmd *exec.Cmd) {}

// terminate asks the browser to exit. Windows has no SIGTERM equivalent
// for GUI processes; Stop falls through to Kill after the grace period.
func terminate(p *os.Process) error {
	return p.Kill()
}
