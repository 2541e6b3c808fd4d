package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const stopPollInterval = 100 * time.Millisecond

// Stop terminates a started command gracefully: SIGTERM first, SIGKILL once
// the grace period elapses. Exit status collection is left to whoever waits
// on the command (the MCP transport does for proxied children), so Stop only
// signals and polls for liveness.
func (l *Launcher) Stop(ctx context.Context, cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	logger := l.logger.With(
		zap.String("child_command", l.spec.Command),
		zap.Int("pid", cmd.Process.Pid),
	)

	logger.Info("Stopping child process")
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		logger.Warn("Failed to send SIGTERM, killing instead", zap.Error(err))
		return cmd.Process.Kill()
	}

	deadline := time.Now().Add(l.gracePeriod)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			logger.Warn("Context cancelled while waiting for child exit, sending SIGKILL")
			_ = cmd.Process.Kill()
			return ctx.Err()
		case <-time.After(stopPollInterval):
		}

		// signal 0 probes whether the process is still running
		if err := cmd.Process.Signal(syscall.Signal(0)); errors.Is(err, os.ErrProcessDone) {
			logger.Info("Child process exited after SIGTERM")
			return nil
		}
	}

	logger.Warn("Child process did not exit within grace period, sending SIGKILL",
		zap.Duration("grace_period", l.gracePeriod))
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
