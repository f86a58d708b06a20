//go:build windows

package runner

import (
	"os"
	"path/filepath"
)

var (
	// DefaultChromePath is the default path to use for Chrome if the
	// executable is not in %PATH%.
	DefaultChromePath = `C:\Program Files\Google\Chrome\Application\chrome.exe`

	// DefaultEdgePath is the default path to use for Edge if the
	// executable is not in %PATH%.
	DefaultEdgePath = `C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`
)

// DefaultChromeNames are the default Chrome executable names to look for
// in %PATH%.
var DefaultChromeNames = []string{
	"chrome",
	"chrome.exe",
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	filepath.Join(os.Getenv("USERPROFILE"), `AppData\Local\Google\Chrome\Application\chrome.exe`),
}

// DefaultEdgeNames are the default Edge executable names to look for in
// %PATH%.
var DefaultEdgeNames = []string{
	"msedge",
	"msedge.exe",
	filepath.Join(os.Getenv("USERPROFILE"), `AppData\Local\Microsoft\Edge\Application\msedge.exe`),
}
