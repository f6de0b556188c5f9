package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/cantonlink/route-engine/internal/common"
)

// ProviderConfig carries upstream base URLs, credentials and the per-call
// adapter timeout. Base URLs are overridable so tests can point adapters at
// an httptest server.
type ProviderConfig struct {
	OneInchBaseURL   string `envconfig:"ONEINCH_BASE_URL" default:"https://api.1inch.dev"`
	OneInchAPIKey    string `envconfig:"ONEINCH_API_KEY"`
	ParaswapBaseURL  string `envconfig:"PARASWAP_BASE_URL" default:"https://apiv5.paraswap.io"`
	LifiBaseURL      string `envconfig:"LIFI_BASE_URL" default:"https://li.quest"`
	LifiAPIKey       string `envconfig:"LIFI_API_KEY"`
	DebridgeBaseURL  string `envconfig:"DEBRIDGE_BASE_URL" default:"https://dln.debridge.finance"`
	JupiterBaseURL   string `envconfig:"JUPITER_BASE_URL" default:"https://quote-api.jup.ag/v6"`
	CetusBaseURL     string `envconfig:"CETUS_BASE_URL" default:"https://api-sui.cetus.zone"`
	AftermathBaseURL string `envconfig:"AFTERMATH_BASE_URL" default:"https://aftermath.finance/api"`
	CoingeckoBaseURL string `envconfig:"COINGECKO_BASE_URL" default:"https://api.coingecko.com"`
	XReserveBaseURL  string `envconfig:"XRESERVE_BASE_URL" default:"https://xreserve-api.circle.com"`

	// Integrator is the partner identifier sent to providers that support
	// attribution (LI.FI, ParaSwap).
	Integrator string `envconfig:"INTEGRATOR"`

	// SwapProviderEVM selects the EVM swap adapter: "paraswap" or "1inch".
	SwapProviderEVM string `envconfig:"SWAP_PROVIDER_EVM" default:"paraswap"`

	// RequestTimeout bounds every outbound adapter call.
	RequestTimeout time.Duration `envconfig:"PROVIDER_REQUEST_TIMEOUT" default:"10s"`

	// StatusRetryMax applies to status polling clients only; quote and
	// route calls are never retried so a changed price cannot slip in.
	StatusRetryMax int `envconfig:"STATUS_RETRY_MAX" default:"2"`
}

func (c *ProviderConfig) Key() string {
	return PROVIDER_CONFIG_KEY
}

func (c *ProviderConfig) Load() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *ProviderConfig) Validate() error {
	if c.Integrator == "" {
		c.Integrator = common.ServiceName
	}
	if c.RequestTimeout <= 0 {
		return errors.New("provider request timeout must be positive")
	}
	switch c.SwapProviderEVM {
	case "paraswap", "1inch":
	default:
		return errors.New("SWAP_PROVIDER_EVM must be paraswap or 1inch")
	}
	return nil
}
