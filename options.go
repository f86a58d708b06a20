package pydoll

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yie1d/pydoll-sub004/runner"
)

// DefaultStartTimeout bounds Browser.Start end to end: process spawn plus
// endpoint discovery.
var DefaultStartTimeout = 30 * time.Second

// DefaultBrowserFlags are passed to every spawned browser unless
// overridden. After Puppeteer's default behavior.
var DefaultBrowserFlags = []runner.CommandLineOption{
	runner.NoFirstRun,
	runner.NoDefaultBrowserCheck,
	runner.Flag("disable-background-networking", true),
	runner.Flag("disable-background-timer-throttling", true),
	runner.Flag("disable-backgrounding-occluded-windows", true),
	runner.Flag("disable-breakpad", true),
	runner.Flag("disable-client-side-phishing-detection", true),
	runner.Flag("disable-default-apps", true),
	runner.Flag("disable-dev-shm-usage", true),
	runner.Flag("disable-hang-monitor", true),
	runner.Flag("disable-ipc-flooding-protection", true),
	runner.Flag("disable-popup-blocking", true),
	runner.Flag("disable-prompt-on-repost", true),
	runner.Flag("disable-renderer-backgrounding", true),
	runner.Flag("disable-sync", true),
	runner.Flag("force-color-profile", "srgb"),
	runner.Flag("metrics-recording-only", true),
	runner.Flag("enable-automation", true),
	runner.Flag("password-store", "basic"),
	runner.Flag("use-mock-keychain", true),
}

type browserOptions struct {
	flags        []runner.CommandLineOption
	execPath     string
	proxyServer  string
	startTimeout time.Duration
	logger       *logrus.Logger
	connDebugf   func(string, ...any)
	noDefaults   bool
}

// Option configures a Browser.
type Option func(*browserOptions)

// WithExecPath sets the browser executable. Without it, Chrome and Edge
// fall back to their per-OS lookup.
func WithExecPath(path string) Option {
	return func(o *browserOptions) {
		o.execPath = path
	}
}

// WithFlag passes a generic command line flag to the browser.
func WithFlag(name string, value any) Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.Flag(name, value))
	}
}

// WithUserDataDir sets a persistent profile directory instead of the
// temporary one.
func WithUserDataDir(dir string) Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.UserDataDir(dir))
	}
}

// WithProxyServer configures the outbound proxy. Userinfo in the URL is
// extracted and answered via Fetch auth interception; it never reaches the
// command line or any CDP parameter.
func WithProxyServer(proxy string) Option {
	return func(o *browserOptions) {
		o.proxyServer = proxy
	}
}

// WithRemoteDebuggingPort fixes the debugging port instead of probing a
// free one.
func WithRemoteDebuggingPort(port int) Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.RemoteDebuggingPort(port))
	}
}

// Headless runs the browser without a window.
func Headless() Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.Headless)
	}
}

// NoSandbox disables the browser sandbox.
func NoSandbox() Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.NoSandbox)
	}
}

// WithWindowSize sets the initial window size.
func WithWindowSize(width, height int) Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.WindowSize(width, height))
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.UserAgent(ua))
	}
}

// WithEnv appends NAME=value environment variables for the browser
// process.
func WithEnv(vars ...string) Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.Env(vars...))
	}
}

// WithArgs appends raw command line arguments after every generated flag,
// so they can override anything.
func WithArgs(args ...string) Option {
	return func(o *browserOptions) {
		o.flags = append(o.flags, runner.ExtraArgs(args...))
	}
}

// WithStartTimeout bounds Browser.Start.
func WithStartTimeout(d time.Duration) Option {
	return func(o *browserOptions) {
		o.startTimeout = d
	}
}

// WithLogger wires a logrus logger into every component.
func WithLogger(l *logrus.Logger) Option {
	return func(o *browserOptions) {
		o.logger = l
	}
}

// WithConnDebugf taps the raw CDP frames of every connection, mainly for
// debugging and tests.
func WithConnDebugf(f func(string, ...any)) Option {
	return func(o *browserOptions) {
		o.connDebugf = f
	}
}

// WithoutDefaultFlags suppresses DefaultBrowserFlags.
func WithoutDefaultFlags() Option {
	return func(o *browserOptions) {
		o.noDefaults = true
	}
}
