//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetGroup makes cmd the leader of a new process group, so the renderer and
// any helpers it forks can be signalled together.
func SetGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillGroup(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
