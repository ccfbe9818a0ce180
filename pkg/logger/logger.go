package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. env "dev" switches to the
// human-readable development config.
func New(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "dev" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("error creating new logger: %w", err)
	}
	return l, nil
}
