package config

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY  = "general-config"
	PROVIDER_CONFIG_KEY = "provider-config"
	FEE_CONFIG_KEY      = "fee-config"
	STORAGE_CONFIG_KEY  = "storage-config"
	TRACKER_CONFIG_KEY  = "tracker-config"
)

type GeneralConfig struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	HTTPHost string `envconfig:"HTTP_HOST" default:"localhost"`
	Env      string `envconfig:"ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

func (gc *GeneralConfig) Load() error {
	if err := envconfig.Process("", gc); err != nil {
		return err
	}
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	return nil
}
