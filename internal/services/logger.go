// Package services holds shared plumbing for the DI-managed services.
package services

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceLogger is the global logger scoped with a fixed service field, so
// every line a service emits names the container instance it came from.
type ServiceLogger struct {
	logger zerolog.Logger
}

func NewServiceLogger(serviceID string) *ServiceLogger {
	return &ServiceLogger{
		logger: log.With().Str("service", serviceID).Logger(),
	}
}

func (l *ServiceLogger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *ServiceLogger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *ServiceLogger) Error() *zerolog.Event { return l.logger.Error() }
func (l *ServiceLogger) Debug() *zerolog.Event { return l.logger.Debug() }
