package pydoll

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

func absPath(path string) (string, error) {
	return filepath.Abs(path)
}

func jsonMarshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// discardLogger returns a logger that drops everything, so the library is
// silent unless the caller wires one in.
func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
