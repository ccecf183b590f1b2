// Package supervisor owns the external SIP client process. Nothing else
// may start, signal, or write to the child except through this type.
package supervisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// ErrNotRunning is returned by Write when the child process is down.
var ErrNotRunning = errors.New("process not running")

// ErrAlreadyStarted is returned by Start after a successful Start.
var ErrAlreadyStarted = errors.New("supervisor already started")

// Restart policy defaults. The restart count is bounded over the
// supervisor's lifetime so a persistent configuration error surfaces in
// status instead of being masked by a restart loop.
const (
	DefaultMaxRestarts    = 3
	DefaultRestartBackoff = 2 * time.Second
	defaultStopTimeout    = 3 * time.Second
)

// Options configures a Supervisor. MaxRestarts of zero means crashes are
// recorded but never restarted.
type Options struct {
	MaxRestarts    int
	RestartBackoff time.Duration
	StopTimeout    time.Duration

	// OnLine receives every line the child writes to stdout/stderr.
	OnLine func(line string)
	// OnExit fires whenever the child exits, expected or not.
	OnExit func(err error)

	Logger *slog.Logger
}

// ProcessStatus is a point-in-time view of the supervised process.
type ProcessStatus struct {
	Running   bool
	PID       int
	StartedAt time.Time
	StoppedAt time.Time
	Restarts  int
	LastError string
}

// Supervisor launches and monitors one external process. The stdin pipe
// is the control channel and is reachable only through Write.
type Supervisor struct {
	path string
	args []string
	opts Options

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	done      chan struct{}
	running   bool
	started   bool
	stopping  bool
	startedAt time.Time
	stoppedAt time.Time
	restarts  int
	lastErr   string
}

// New prepares a supervisor for the executable at path. It does not
// launch anything until Start.
func New(path string, args []string, opts Options) *Supervisor {
	if opts.RestartBackoff <= 0 {
		opts.RestartBackoff = DefaultRestartBackoff
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = defaultStopTimeout
	}
	return &Supervisor{path: path, args: append([]string(nil), args...), opts: opts}
}

func (s *Supervisor) logger() *slog.Logger {
	if s.opts.Logger != nil {
		return s.opts.Logger
	}
	return slog.Default()
}

// Start launches the process. A launch failure is returned to the caller
// and also recorded for status; the supervisor does not retry it.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	return s.launch(ctx)
}

func (s *Supervisor) launch(ctx context.Context) error {
	cmd := exec.Command(s.path, s.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return s.recordLaunchError(fmt.Errorf("open control channel: %w", err))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return s.recordLaunchError(fmt.Errorf("open output pipe: %w", err))
	}
	// Merge stderr into the same pipe; one scanner covers both.
	cmd.Stderr = cmd.Stdout

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if err := cmd.Start(); err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("start %s: %w", s.path, err)
	}
	done := make(chan struct{})
	s.cmd = cmd
	s.stdin = stdin
	s.done = done
	s.running = true
	s.startedAt = time.Now()
	s.stoppedAt = time.Time{}
	pid := cmd.Process.Pid
	s.mu.Unlock()

	s.logger().Info("pjsua started", "path", s.path, "pid", pid)

	go s.scan(stdout)
	go s.wait(ctx, cmd, done)
	return nil
}

func (s *Supervisor) recordLaunchError(err error) error {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	return err
}

func (s *Supervisor) scan(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		s.logger().Debug("pjsua output", "line", line)
		if s.opts.OnLine != nil {
			s.opts.OnLine(line)
		}
	}
}

func (s *Supervisor) wait(ctx context.Context, cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()

	s.mu.Lock()
	s.running = false
	s.stoppedAt = time.Now()
	stopping := s.stopping
	restarts := s.restarts
	if !stopping {
		if err != nil {
			s.lastErr = "exited: " + err.Error()
		} else {
			s.lastErr = "exited before shutdown"
		}
	}
	s.mu.Unlock()
	close(done)

	if s.opts.OnExit != nil {
		s.opts.OnExit(err)
	}

	if stopping || ctx.Err() != nil {
		s.logger().Info("pjsua stopped", "err", err)
		return
	}

	// The child is meant to be long-lived, so even a clean exit counts
	// as a crash for restart accounting.
	s.logger().Error("pjsua exited unexpectedly", "err", err, "restarts", restarts)

	if restarts >= s.opts.MaxRestarts {
		s.mu.Lock()
		s.lastErr = fmt.Sprintf("gave up after %d restarts; last exit: %v", restarts, err)
		s.mu.Unlock()
		s.logger().Error("restart limit reached, staying down", "max_restarts", s.opts.MaxRestarts)
		return
	}

	select {
	case <-time.After(s.opts.RestartBackoff):
	case <-ctx.Done():
		return
	}

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return
	}
	s.restarts++
	attempt := s.restarts
	s.mu.Unlock()

	s.logger().Info("restarting pjsua", "attempt", attempt, "max_restarts", s.opts.MaxRestarts)
	if err := s.launch(ctx); err != nil {
		s.logger().Error("pjsua restart failed", "err", err)
	}
}

// Stop terminates the child and waits for it to exit. Safe to call when
// nothing is running. After Stop the supervisor stays down; it is not
// restartable.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	s.stopping = true
	cmd := s.cmd
	stdin := s.stdin
	done := s.done
	running := s.running
	s.mu.Unlock()

	if !running || cmd == nil {
		return
	}

	if stdin != nil {
		_ = stdin.Close()
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-done:
	case <-time.After(s.opts.StopTimeout):
		_ = cmd.Process.Kill()
		<-done
	}
}

// Alive reports whether the child process is currently running.
func (s *Supervisor) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Write sends bytes to the child's control channel (its stdin). Callers
// are responsible for serializing whole commands; the bridge does this.
func (s *Supervisor) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.stdin == nil {
		return 0, ErrNotRunning
	}
	return s.stdin.Write(p)
}

// Snapshot returns the current process status.
func (s *Supervisor) Snapshot() ProcessStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := ProcessStatus{
		Running:   s.running,
		StartedAt: s.startedAt,
		StoppedAt: s.stoppedAt,
		Restarts:  s.restarts,
		LastError: s.lastErr,
	}
	if s.running && s.cmd != nil && s.cmd.Process != nil {
		st.PID = s.cmd.Process.Pid
	}
	return st
}
