// Package launcher owns the lifecycle of a launched server process: building
// the exec.Cmd from a launch spec, forwarding the child's stderr into the
// host logger, and stopping the child gracefully.
package launcher

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mcplaunch/mcp-launch/pkg/descriptor"
)

// passthroughEnv is the minimal set of host environment variables a child
// process gets in addition to the descriptor's env mapping.
var passthroughEnv = []string{
	"PATH",
	"HOME",
	"TMPDIR",
	"LANG",
	"LC_ALL",
	"USER",
}

// Launcher builds commands for one launch spec.
type Launcher struct {
	spec        *descriptor.LaunchSpec
	logger      *zap.Logger
	gracePeriod time.Duration
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the logger the child's stderr is forwarded to.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// WithGracePeriod sets how long Stop waits between SIGTERM and SIGKILL.
func WithGracePeriod(d time.Duration) Option {
	return func(l *Launcher) {
		if d > 0 {
			l.gracePeriod = d
		}
	}
}

func New(spec *descriptor.LaunchSpec, opts ...Option) *Launcher {
	l := &Launcher{
		spec:        spec,
		logger:      zap.NewNop(),
		gracePeriod: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cmd builds the exec.Cmd for the launch spec. The command's stdin and
// stdout are left untouched for the MCP transport; stderr is forwarded
// line-by-line to the host logger.
func (l *Launcher) Cmd(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, l.spec.Command, l.spec.Args...)
	cmd.Env = Environment(l.spec)
	cmd.Dir = l.spec.Dir
	cmd.Stderr = l.stderrWriter()
	return cmd
}

// Environment builds the child environment: a minimal passthrough of the
// host environment plus the spec's env map. Spec variables win over
// passthrough variables of the same name. The result is sorted to keep
// launches reproducible.
func Environment(spec *descriptor.LaunchSpec) []string {
	merged := make(map[string]string, len(passthroughEnv)+len(spec.Env))
	for _, key := range passthroughEnv {
		if val, ok := os.LookupEnv(key); ok {
			merged[key] = val
		}
	}
	for key, val := range spec.Env {
		merged[key] = val
	}

	env := make([]string, 0, len(merged))
	for key, val := range merged {
		env = append(env, key+"="+val)
	}
	sort.Strings(env)
	return env
}

// stderrWriter returns a writer that forwards each line the child writes to
// stderr into the host logger tagged with the command name. exec.Cmd drives
// the writer from its own copy loop and stops calling it once the child's
// stderr closes, so there is no goroutine to unwind.
func (l *Launcher) stderrWriter() io.Writer {
	return &stderrLogger{
		logger: l.logger.With(zap.String("child_command", l.spec.Command)),
	}
}

// maxStderrLine caps buffering for children that emit data without newlines.
const maxStderrLine = 1024 * 1024

type stderrLogger struct {
	logger *zap.Logger
	buf    []byte
}

func (w *stderrLogger) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	if len(w.buf) > maxStderrLine {
		w.emit(w.buf)
		w.buf = w.buf[:0]
	}

	return len(p), nil
}

func (w *stderrLogger) emit(line []byte) {
	text := strings.TrimRight(string(line), "\r")
	if text == "" {
		return
	}
	w.logger.Info("child stderr", zap.String("line", text))
}
