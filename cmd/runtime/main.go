package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/cantonlink/route-engine/internal/common"
	"github.com/cantonlink/route-engine/internal/config"
	"github.com/cantonlink/route-engine/internal/engine"
	"github.com/cantonlink/route-engine/internal/http"
	"github.com/cantonlink/route-engine/internal/status"
)

// @title CantonLink Route Engine API
// @version 1.0
// @description Cross-chain route resolution engine. Takes a transfer request and
// @description resolves it into one executable route: a same-chain swap, a bridge,
// @description or a bridge with a destination swap.
// @description
// @description ## - Features
// @description - **Chain Classification**: EVM, Solana, Sui and Canton chain ids
// @description - **Mode Enforcement**: AUTO, SWAP_ONLY and BRIDGE_ONLY semantics
// @description - **Provider Adapters**: 1inch, ParaSwap, Jupiter, Cetus, LI.FI, deBridge DLN, Circle xReserve
// @description - **Status Tracking**: persisted routes with periodic bridge status polling
// @description - **Disclosed Fees**: flat bps schedule attached to every route, never deducted
// @description
// @description ## - Usage Tips
// @description - Amounts are in smallest token units (wei, lamports, base units)
// @description - Default slippage is 50 bps (0.5%), valid range 1 to 5000
// @description - Routes expire quickly: re-quote before execution
// @description
// @description ## - API Status
// @description - **Rate Limit**: 10 requests/second (burst: 20)
// @host localhost:8080
// @BasePath /
// @schemes http https
// @tag.name quote
// @tag.description Resolve transfer requests into executable routes
// @tag.name status
// @tag.description Track bridge transfers by source tx hash
// @tag.name routes
// @tag.description Persist and poll resolved routes
// @tag.name tokens
// @tag.description Curated token metadata per chain

func main() {
	common.InitRuntime()

	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	general := &config.GeneralConfig{}
	if err := general.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load general config")
		return
	}
	common.InitLogger(general.LogLevel, general.Env)

	// di container config
	conf := container.NewConf(
		general,
		&config.ProviderConfig{},
		&config.FeeConfig{},
		&config.StorageConfig{},
		&config.TrackerConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&engine.Service{},
		&status.TrackerService{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	// Run() waits for SIGINT/SIGTERM but does not call Stop()
	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
