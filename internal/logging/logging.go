// Package logging constructs the service logger.
package logging

import "go.uber.org/zap"

// New returns a production zap logger, or a human-readable development
// one when env is "development".
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
