package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type TrackerConfig struct {
	// PollInterval is the status-check cadence per tracked route.
	PollInterval time.Duration `envconfig:"STATUS_POLL_INTERVAL" default:"10s"`

	// MaxPollWindow bounds how long a route is polled before it is left
	// resumable. Manual re-tracking restarts the window.
	MaxPollWindow time.Duration `envconfig:"STATUS_MAX_POLL_WINDOW" default:"30m"`
}

func (c *TrackerConfig) Key() string {
	return TRACKER_CONFIG_KEY
}

func (c *TrackerConfig) Load() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *TrackerConfig) Validate() error {
	if c.PollInterval <= 0 || c.MaxPollWindow <= 0 {
		return errors.New("tracker intervals must be positive")
	}
	return nil
}
