package config

import (
	"errors"

	"github.com/kelseyhightower/envconfig"

	"github.com/cantonlink/route-engine/internal/common"
)

type FeeConfig struct {
	FeeName      string `envconfig:"FEE_NAME"`
	SwapFeeBps   uint16 `envconfig:"SWAP_FEE_BPS" default:"10"`
	BridgeFeeBps uint16 `envconfig:"BRIDGE_FEE_BPS" default:"15"`
	OTCFeeBps    uint16 `envconfig:"OTC_FEE_BPS" default:"25"`
}

func (c *FeeConfig) Key() string {
	return FEE_CONFIG_KEY
}

func (c *FeeConfig) Load() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *FeeConfig) Validate() error {
	if c.FeeName == "" {
		c.FeeName = common.ServiceName
	}
	for _, bps := range []uint16{c.SwapFeeBps, c.BridgeFeeBps, c.OTCFeeBps} {
		if bps >= 10000 {
			return errors.New("fee rates must be below 10000 bps")
		}
	}
	return nil
}
