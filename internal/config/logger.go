package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger: development output when debug is set,
// JSON production output otherwise.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
