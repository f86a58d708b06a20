//go:build darwin

package runner

const (
	// DefaultChromePath is the default path to use for Chrome if the
	// executable is not in $PATH.
	DefaultChromePath = `/Applications/Google Chrome.app/Contents/MacOS/Google Chrome`

	// DefaultEdgePath is the default path to use for Edge if the
	// executable is not in $PATH.
	DefaultEdgePath = `/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge`
)

// DefaultChromeNames are the default Chrome executable names to look for
// in $PATH.
var DefaultChromeNames []string

// DefaultEdgeNames are the default Edge executable names to look for in
// $PATH.
var DefaultEdgeNames []string
