// Package logging builds the zap logger shared by all commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a no-op logger unless verbose is set, in which case a
// development logger writing debug-level output to stderr is returned.
// Reports always go to stdout; logs never do.
func New(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level.SetLevel(zap.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]interface{}{
		"service": "grce",
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
