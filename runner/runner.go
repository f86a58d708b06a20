// Package runner spawns and terminates the browser process behind pydoll:
// it builds the command line, owns the temporary user-data directory, and
// shuts the child down gracefully before force-killing it.
package runner

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultUserDataDirPrefix is the prefix of generated temporary user
	// data directories.
	DefaultUserDataDirPrefix = "pydoll-runner."

	// ShutdownGracePeriod is how long Stop waits after signalling the
	// process before force-killing it.
	ShutdownGracePeriod = 3 * time.Second
)

// Error is a runner error.
type Error string

// Error satisfies the error interface.
func (err Error) Error() string {
	return string(err)
}

// Error values.
const (
	// ErrAlreadyStarted is the already started error.
	ErrAlreadyStarted Error = "already started"

	// ErrNotStarted is the not started error.
	ErrNotStarted Error = "not started"

	// ErrInvalidExecPath is the invalid exec-path error.
	ErrInvalidExecPath Error = "invalid exec-path"

	// ErrExecNotFound is returned when the browser executable does not
	// exist and cannot be found in $PATH.
	ErrExecNotFound Error = "browser executable not found"
)

// Runner holds information about a running browser process.
type Runner struct {
	opts map[string]any
	log  *logrus.Entry

	rw        sync.RWMutex
	cmd       *exec.Cmd
	port      int
	dataDir   string
	removeDir bool
	waitErr   error
	waited    chan struct{}
}

// CommandLineOption is a browser command line option.
type CommandLineOption = func(map[string]any) error

// New creates a new browser process runner using the supplied command line
// options.
func New(opts ...CommandLineOption) (*Runner, error) {
	cliOpts := make(map[string]any)

	for _, o := range opts {
		if err := o(cliOpts); err != nil {
			return nil, err
		}
	}

	r := &Runner{
		opts: cliOpts,
		log:  logrus.NewEntry(silentLogger()),
	}
	if l, ok := cliOpts["logger"].(*logrus.Logger); ok {
		r.log = l.WithField("category", "runner")
	}
	return r, nil
}

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(nullWriter{})
	return l
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

// cliOptRE validates a browser cli option name.
var cliOptRE = regexp.MustCompile(`^[a-z0-9\-]+$`)

// buildArgs generates the command line arguments for the browser. Flags
// are emitted in sorted order so the command line is stable; extra-args
// supplied by the caller are appended last so they can override.
func (r *Runner) buildArgs() []string {
	names := make([]string, 0, len(r.opts))
	for k := range r.opts {
		names = append(names, k)
	}
	sort.Strings(names)

	var args []string
	var extra []string
	for _, k := range names {
		v := r.opts[k]
		if !cliOptRE.MatchString(k) || v == nil {
			continue
		}
		switch k {
		case "exec-path", "env", "logger":
			continue
		case "extra-args":
			extra, _ = v.([]string)
		default:
			switch z := v.(type) {
			case bool:
				if z {
					args = append(args, "--"+k)
				}
			case string:
				args = append(args, "--"+k+"="+z)
			default:
				args = append(args, "--"+k+"="+fmt.Sprintf("%v", v))
			}
		}
	}

	args = append(args, extra...)
	// Force the first page to be blank instead of the welcome page;
	// --no-first-run does not enforce that.
	return append(args, "about:blank")
}

// Start spawns the browser process. The debugging port is taken from the
// remote-debugging-port option; a zero or absent port is replaced by a
// probed free one. A temporary user data directory is created unless one
// was supplied, and removed again at Stop. ctx only bounds Start itself;
// the child outlives it.
func (r *Runner) Start(ctx context.Context) error {
	r.rw.Lock()
	defer r.rw.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if r.cmd != nil {
		return ErrAlreadyStarted
	}

	execPath, _ := r.opts["exec-path"].(string)
	if execPath == "" {
		return ErrInvalidExecPath
	}
	if fullPath, err := exec.LookPath(execPath); err == nil {
		execPath = fullPath
	} else if _, err := os.Stat(execPath); err != nil {
		return ErrExecNotFound
	}

	port, err := r.resolvePort()
	if err != nil {
		return err
	}
	r.port = port
	r.opts["remote-debugging-port"] = strconv.Itoa(port)

	if _, ok := r.opts["user-data-dir"]; !ok {
		dir, err := os.MkdirTemp("", DefaultUserDataDirPrefix)
		if err != nil {
			return err
		}
		r.opts["user-data-dir"] = dir
		r.dataDir = dir
		r.removeDir = true
	} else {
		r.dataDir, _ = r.opts["user-data-dir"].(string)
	}

	if _, ok := r.opts["no-sandbox"]; !ok && os.Getuid() == 0 {
		// Chrome needs --no-sandbox when running as root, for example in
		// a Linux container.
		r.opts["no-sandbox"] = true
	}

	cmd := exec.Command(execPath, r.buildArgs()...)
	applySysProcAttr(cmd)
	if env, ok := r.opts["env"].([]string); ok && len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	if err := cmd.Start(); err != nil {
		if r.removeDir {
			os.RemoveAll(r.dataDir)
			r.dataDir = ""
			r.removeDir = false
		}
		return fmt.Errorf("start %s: %w", execPath, err)
	}

	r.cmd = cmd
	waited := make(chan struct{})
	r.waited = waited
	go func() {
		err := cmd.Wait()
		r.rw.Lock()
		r.waitErr = err
		r.rw.Unlock()
		close(waited)
	}()

	r.log.WithFields(logrus.Fields{"pid": cmd.Process.Pid, "port": port}).Debug("browser process started")
	return nil
}

// resolvePort returns the configured debugging port, probing a free one
// when the option is absent or zero.
func (r *Runner) resolvePort() (int, error) {
	switch v := r.opts["remote-debugging-port"].(type) {
	case int:
		if v > 0 {
			return v, nil
		}
		if v < 0 {
			return 0, Error("invalid remote-debugging-port")
		}
	case string:
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p, nil
		}
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port, nil
}

// Stop terminates the browser process: termination signal first, then a
// force kill once ShutdownGracePeriod has elapsed. The temporary user data
// directory, if the runner created one, is removed afterwards. A process
// exit caused by a signal (Stop's own termination signal or the force
// kill) is not reported as an error.
func (r *Runner) Stop() error {
	r.rw.Lock()
	cmd := r.cmd
	waited := r.waited
	r.rw.Unlock()

	if cmd == nil || cmd.Process == nil {
		return ErrNotStarted
	}

	defer r.cleanupDataDir()

	if err := terminate(cmd.Process); err != nil {
		// The process may have exited on its own already.
		r.log.WithError(err).Debug("terminate signal failed")
	}

	select {
	case <-waited:
	case <-time.After(ShutdownGracePeriod):
		r.log.Debug("grace period elapsed, force killing")
		cmd.Process.Kill()
		<-waited
	}

	r.rw.Lock()
	err := r.waitErr
	r.cmd = nil
	r.rw.Unlock()
	if ee, ok := err.(*exec.ExitError); ok && !ee.Exited() {
		return nil
	}
	return err
}

func (r *Runner) cleanupDataDir() {
	r.rw.Lock()
	dir, remove := r.dataDir, r.removeDir
	r.dataDir, r.removeDir = "", false
	r.rw.Unlock()
	if remove && dir != "" {
		if err := os.RemoveAll(dir); err != nil {
			r.log.WithError(err).Debug("could not remove user data dir")
		}
	}
}

// Wait blocks until the previously started browser process terminates,
// returning any encountered error.
func (r *Runner) Wait() error {
	r.rw.RLock()
	waited := r.waited
	r.rw.RUnlock()
	if waited == nil {
		return ErrNotStarted
	}
	<-waited
	r.rw.RLock()
	defer r.rw.RUnlock()
	return r.waitErr
}

// Running reports whether the child process is alive.
func (r *Runner) Running() bool {
	r.rw.RLock()
	defer r.rw.RUnlock()
	if r.cmd == nil || r.waited == nil {
		return false
	}
	select {
	case <-r.waited:
		return false
	default:
		return true
	}
}

// Port returns the remote debugging port for the browser process.
func (r *Runner) Port() int {
	r.rw.RLock()
	defer r.rw.RUnlock()
	return r.port
}

// UserDataDir returns the profile directory in use, if any.
func (r *Runner) UserDataDir() string {
	r.rw.RLock()
	defer r.rw.RUnlock()
	return r.dataDir
}

// BuildArgs exposes the generated command line for inspection, mainly by
// tests and debug logging.
func (r *Runner) BuildArgs() []string {
	r.rw.RLock()
	defer r.rw.RUnlock()
	return r.buildArgs()
}

// Flag is a generic command line option to pass a flag to the browser. If
// the value is a string it is passed as --name=value; a true boolean is
// passed as --name.
func Flag(name string, value any) CommandLineOption {
	return func(m map[string]any) error {
		m[name] = value
		return nil
	}
}

// ExecPath is a command line option to set the browser executable.
func ExecPath(path string) CommandLineOption {
	return func(m map[string]any) error {
		m["exec-path"] = path
		return nil
	}
}

// UserDataDir is a command line option to set the user data dir.
func UserDataDir(dir string) CommandLineOption {
	return Flag("user-data-dir", dir)
}

// ProxyServer is a command line option to set the outbound proxy server.
// The value must already be stripped of userinfo by the caller.
func ProxyServer(proxy string) CommandLineOption {
	return Flag("proxy-server", proxy)
}

// RemoteDebuggingPort is a command line option to set the remote debugging
// port. Zero selects a free port by probing.
func RemoteDebuggingPort(port int) CommandLineOption {
	return Flag("remote-debugging-port", port)
}

// WindowSize is a command line option to set the initial window size.
func WindowSize(width, height int) CommandLineOption {
	return Flag("window-size", fmt.Sprintf("%d,%d", width, height))
}

// UserAgent is a command line option to set the default User-Agent header.
func UserAgent(userAgent string) CommandLineOption {
	return Flag("user-agent", userAgent)
}

// NoSandbox is the command line option to disable the sandbox.
func NoSandbox(m map[string]any) error {
	return Flag("no-sandbox", true)(m)
}

// NoFirstRun is the command line option to disable the first run dialog.
func NoFirstRun(m map[string]any) error {
	return Flag("no-first-run", true)(m)
}

// NoDefaultBrowserCheck is the command line option to disable the default
// browser check.
func NoDefaultBrowserCheck(m map[string]any) error {
	return Flag("no-default-browser-check", true)(m)
}

// Headless is the command line option to run in headless mode.
func Headless(m map[string]any) error {
	for _, o := range []CommandLineOption{
		Flag("headless", true),
		Flag("hide-scrollbars", true),
		Flag("mute-audio", true),
	} {
		if err := o(m); err != nil {
			return err
		}
	}
	return nil
}

// DisableGPU is the command line option to disable the GPU process.
func DisableGPU(m map[string]any) error {
	return Flag("disable-gpu", true)(m)
}

// Env is a command line option holding extra NAME=value environment
// variables for the browser process.
func Env(vars ...string) CommandLineOption {
	return func(m map[string]any) error {
		env, _ := m["env"].([]string)
		m["env"] = append(env, vars...)
		return nil
	}
}

// ExtraArgs is a command line option appending raw arguments after every
// generated flag, so callers can override anything.
func ExtraArgs(args ...string) CommandLineOption {
	return func(m map[string]any) error {
		extra, _ := m["extra-args"].([]string)
		m["extra-args"] = append(extra, args...)
		return nil
	}
}

// Logger is a command line option wiring a logrus logger into the runner.
func Logger(l *logrus.Logger) CommandLineOption {
	return func(m map[string]any) error {
		m["logger"] = l
		return nil
	}
}
