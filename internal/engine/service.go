// Package engine wires the adapter registry, fee schedule and resolver into
// one facade the HTTP layer and CLI talk to.
package engine

import (
	"context"
	"fmt"
	"strings"

	container "github.com/thehyperflames/dicontainer-go"

	"github.com/cantonlink/route-engine/internal/adapters/bridge"
	"github.com/cantonlink/route-engine/internal/adapters/canton"
	"github.com/cantonlink/route-engine/internal/adapters/evm"
	"github.com/cantonlink/route-engine/internal/adapters/httpclient"
	"github.com/cantonlink/route-engine/internal/adapters/solana"
	"github.com/cantonlink/route-engine/internal/adapters/sui"
	"github.com/cantonlink/route-engine/internal/chains"
	"github.com/cantonlink/route-engine/internal/config"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/fees"
	"github.com/cantonlink/route-engine/internal/routing"
	"github.com/cantonlink/route-engine/internal/services"
	"github.com/cantonlink/route-engine/internal/status"
	"github.com/cantonlink/route-engine/internal/tokens"
)

const ENGINE_SERVICE = "engine-service"

// Bridge transport ids as registered in the routing registry. Registration
// order matters: the first transport per chain kind is the primary.
const (
	TransportLifi     = "lifi"
	TransportDebridge = "debridge"
	TransportXReserve = "xreserve"
)

type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	providerCfg *config.ProviderConfig
	feeCfg      *config.FeeConfig

	registry *routing.Registry
	resolver *routing.Resolver
	tokens   *tokens.Registry
}

func (svc *Service) ID() string {
	return ENGINE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc.ID())
	svc.providerCfg = c.GetConfig(config.PROVIDER_CONFIG_KEY).(*config.ProviderConfig)
	svc.feeCfg = c.GetConfig(config.FEE_CONFIG_KEY).(*config.FeeConfig)

	cfg := svc.providerCfg
	quoteClient := httpclient.NewQuoteClient(cfg.RequestTimeout)
	statusClient := httpclient.NewStatusClient(cfg.RequestTimeout, cfg.StatusRetryMax)

	svc.registry = routing.NewRegistry()

	switch cfg.SwapProviderEVM {
	case "1inch":
		svc.registry.RegisterSwap(chains.KindEVM, evm.NewOneInchAdapter(cfg.OneInchBaseURL, cfg.OneInchAPIKey, quoteClient))
	default:
		svc.registry.RegisterSwap(chains.KindEVM, evm.NewParaswapAdapter(cfg.ParaswapBaseURL, cfg.Integrator, quoteClient))
	}
	svc.registry.RegisterSwap(chains.KindSolana, solana.NewJupiterAdapter(cfg.JupiterBaseURL, quoteClient))
	svc.registry.RegisterSwap(chains.KindSui, sui.NewCetusAdapter(cfg.CetusBaseURL, cfg.AftermathBaseURL, quoteClient))
	svc.registry.RegisterSwap(chains.KindCanton, canton.NewSwapAdapter(cfg.CoingeckoBaseURL, quoteClient))

	lifi := bridge.NewLifiAdapter(cfg.LifiBaseURL, cfg.LifiAPIKey, cfg.Integrator, quoteClient, statusClient)
	debridge := bridge.NewDebridgeAdapter(cfg.DebridgeBaseURL, quoteClient, statusClient)
	xreserve := canton.NewXReserveAdapter(cfg.XReserveBaseURL, statusClient)

	svc.registry.RegisterBridge(chains.KindEVM, TransportLifi, lifi)
	svc.registry.RegisterBridge(chains.KindEVM, TransportDebridge, debridge)
	svc.registry.RegisterBridge(chains.KindSolana, TransportLifi, lifi)
	svc.registry.RegisterBridge(chains.KindSolana, TransportDebridge, debridge)
	svc.registry.RegisterBridge(chains.KindCanton, TransportXReserve, xreserve)

	schedule, err := fees.NewSchedule(svc.feeCfg.FeeName, svc.feeCfg.SwapFeeBps, svc.feeCfg.BridgeFeeBps, svc.feeCfg.OTCFeeBps)
	if err != nil {
		return err
	}

	svc.resolver = routing.NewResolver(svc.registry, schedule, cfg.RequestTimeout)
	svc.tokens = tokens.NewRegistry()
	return nil
}

func (svc *Service) Start() error {
	svc.logger.Info().
		Str("evmSwapProvider", svc.providerCfg.SwapProviderEVM).
		Dur("adapterTimeout", svc.providerCfg.RequestTimeout).
		Msg("route engine started")
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// Resolve runs the routing algorithm and enriches the result with curated
// token metadata.
func (svc *Service) Resolve(ctx context.Context, req *domain.TransferRequest) (*domain.Route, *domain.RoutingError) {
	route, rerr := svc.resolver.Resolve(ctx, req)
	if route != nil {
		svc.tokens.Enrich(route)
	}
	return route, rerr
}

// BridgeStatus asks the bridge behind the query for the current state of a
// send tx. The tool hint wins when it maps onto a registered transport,
// otherwise the chain pair decides.
func (svc *Service) BridgeStatus(ctx context.Context, q routing.StatusQuery) (domain.BridgeStatus, error) {
	adapter, ok := svc.bridgeForQuery(q)
	if !ok {
		return domain.BridgeStatus{}, fmt.Errorf("no bridge adapter for %s -> %s", q.FromChain, q.ToChain)
	}
	return adapter.GetStatus(ctx, q)
}

// StatusFetch packages BridgeStatus as a poller fetch for the tracker.
func (svc *Service) StatusFetch(q routing.StatusQuery) status.Fetch {
	return func(ctx context.Context) (domain.BridgeStatus, error) {
		return svc.BridgeStatus(ctx, q)
	}
}

func (svc *Service) Tokens() *tokens.Registry {
	return svc.tokens
}

func (svc *Service) bridgeForQuery(q routing.StatusQuery) (routing.BridgeAdapter, bool) {
	if q.Tool != "" {
		if adapter, ok := svc.registry.BridgeByTransport(transportHint(q.Tool)); ok {
			return adapter, true
		}
	}
	return svc.registry.BridgeFor(chains.Classify(q.FromChain), chains.Classify(q.ToChain))
}

// transportHint maps step tool labels such as "LI.FI/stargate" or
// "Canton xReserve" back onto transport ids.
func transportHint(tool string) string {
	t := strings.ToLower(tool)
	switch {
	case strings.HasPrefix(t, "li.fi"):
		return TransportLifi
	case strings.Contains(t, "debridge"):
		return TransportDebridge
	case strings.Contains(t, "xreserve"):
		return TransportXReserve
	default:
		return t
	}
}
