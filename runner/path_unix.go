//go:build linux || freebsd || netbsd || openbsd

package runner

const (
	// DefaultChromePath is the default path to use for Chrome if the
	// executable is not in $PATH.
	DefaultChromePath = "/usr/bin/google-chrome"

	// DefaultEdgePath is the default path to use for Edge if the
	// executable is not in $PATH.
	DefaultEdgePath = "/usr/bin/microsoft-edge"
)

// DefaultChromeNames are the default Chrome executable names to look for
// in $PATH.
var DefaultChromeNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium-browser",
	"chromium",
	"google-chrome-beta",
	"google-chrome-unstable",
}

// DefaultEdgeNames are the default Edge executable names to look for in
// $PATH.
var DefaultEdgeNames = []string{
	"microsoft-edge",
	"microsoft-edge-stable",
	"microsoft-edge-beta",
	"microsoft-edge-dev",
}
