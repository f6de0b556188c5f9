package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"

	"github.com/cantonlink/route-engine/internal/chains"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/fees"
	"github.com/cantonlink/route-engine/internal/metrics"
)

// FeeProvider is the fee collaborator contract consumed in step 7 of the
// resolution algorithm.
type FeeProvider interface {
	Breakdown(amount string, class fees.Class) (*domain.FeeInfo, error)
}

// Resolver owns no long-lived state beyond the registry reference; every
// Resolve call is independent and bounded by the adapter timeout.
type Resolver struct {
	registry *Registry
	fees     FeeProvider
	timeout  time.Duration
}

func NewResolver(registry *Registry, feeProvider FeeProvider, adapterTimeout time.Duration) *Resolver {
	if adapterTimeout <= 0 {
		adapterTimeout = 10 * time.Second
	}
	return &Resolver{registry: registry, fees: feeProvider, timeout: adapterTimeout}
}

// Resolve turns a TransferRequest into one normalized Route or exactly one
// typed RoutingError. No partial results: an error return carries no steps.
func (r *Resolver) Resolve(ctx context.Context, req *domain.TransferRequest) (*domain.Route, *domain.RoutingError) {
	start := time.Now()
	route, rerr := r.resolve(ctx, req)

	routeType := "none"
	status := "success"
	if route != nil {
		routeType = string(route.RouteType)
	}
	if rerr != nil {
		status = rerr.Code
	}
	metrics.ResolveRequests.WithLabelValues(routeType, status).Inc()
	metrics.ResolveDuration.WithLabelValues(routeType).Observe(time.Since(start).Seconds())

	return route, rerr
}

func (r *Resolver) resolve(ctx context.Context, req *domain.TransferRequest) (*domain.Route, *domain.RoutingError) {
	// 1. Shape validation, before any network call.
	req.Normalize()
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	// 2. Mode enforcement.
	if merr := ValidateMode(req.Mode, req.FromChain, req.ToChain); merr != nil {
		return nil, merr
	}

	// 3. Classification.
	fromKind := chains.Classify(req.FromChain)
	toKind := chains.Classify(req.ToChain)
	if fromKind == chains.KindUnknown {
		return nil, domain.NewRoutingError(domain.CodeUnsupportedChain, fmt.Sprintf("unrecognized chain id %q", req.FromChain))
	}
	if toKind == chains.KindUnknown {
		return nil, domain.NewRoutingError(domain.CodeUnsupportedChain, fmt.Sprintf("unrecognized chain id %q", req.ToChain))
	}

	// 4. Effective route type.
	var routeType domain.RouteType
	var reason string
	switch req.Mode {
	case domain.ModeSwapOnly:
		routeType = domain.RouteTypeSwap
		reason = "swap requested explicitly (SWAP_ONLY)"
	case domain.ModeBridgeOnly:
		routeType = domain.RouteTypeBridge
		reason = "bridge requested explicitly (BRIDGE_ONLY)"
	default:
		routeType, reason = ResolveAutoRouteType(req.FromChain, req.ToChain)
	}

	if routeType == domain.RouteTypeSwap {
		return r.resolveSwap(ctx, req, fromKind, reason)
	}
	return r.resolveBridge(ctx, req, fromKind, toKind, reason)
}

func (r *Resolver) resolveSwap(ctx context.Context, req *domain.TransferRequest, kind chains.Kind, reason string) (*domain.Route, *domain.RoutingError) {
	adapter, ok := r.registry.SwapFor(kind)
	if !ok {
		return nil, domain.NewRoutingError(domain.CodeNoAdapter, fmt.Sprintf("no swap adapter registered for %s", kind))
	}

	result := r.callSwap(ctx, adapter, QuoteParams{
		ChainID:     req.FromChain,
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		Amount:      req.Amount,
		SlippageBps: req.SlippageBps,
		Sender:      req.FromAddress,
		Recipient:   req.ToAddress,
	})
	if !result.Success {
		return nil, adapterError(result.Kind, result.Err, adapter.Name())
	}

	steps := make([]domain.RouteStep, 0, 2)
	// Approval is inferred from adapter output, never re-derived from
	// on-chain allowance state.
	if kind == chains.KindEVM && !chains.IsNativeEVMToken(req.FromToken) &&
		result.ApprovalTarget != "" && result.TransactionData != nil {
		steps = append(steps, domain.RouteStep{
			ID:          stepID(domain.StepApprove),
			Type:        domain.StepApprove,
			Description: fmt.Sprintf("Approve %s to spend the source token", adapter.Name()),
			ChainID:     req.FromChain,
			Tool:        adapter.Name(),
			Status:      domain.StepPending,
			TransactionData: &domain.TransactionData{
				To: result.ApprovalTarget,
			},
		})
	}
	steps = append(steps, domain.RouteStep{
		ID:              stepID(domain.StepSwap),
		Type:            domain.StepSwap,
		Description:     fmt.Sprintf("Swap via %s", adapter.Name()),
		ChainID:         req.FromChain,
		Tool:            adapter.Name(),
		Status:          domain.StepPending,
		TransactionData: result.TransactionData,
	})

	route := r.assemble(req, domain.RouteTypeSwap, adapter.Name(), reason, steps, routeAmounts{
		toAmount:     result.ToAmount,
		toAmountMin:  result.ToAmountMin,
		exchangeRate: result.ExchangeRate,
		priceImpact:  result.PriceImpact,
		estimatedGas: result.EstimatedGas,
		etaSeconds:   result.EtaSeconds,
		providerFees: result.Fees,
	})

	if ferr := r.attachFee(route, feeClass(domain.RouteTypeSwap, kind, kind)); ferr != nil {
		return nil, ferr
	}
	return route, nil
}

func (r *Resolver) resolveBridge(ctx context.Context, req *domain.TransferRequest, fromKind, toKind chains.Kind, reason string) (*domain.Route, *domain.RoutingError) {
	adapter, ok := r.registry.BridgeFor(fromKind, toKind)
	if !ok {
		return nil, domain.NewRoutingError(domain.CodeNoAdapter,
			fmt.Sprintf("no bridge adapter registered for %s -> %s", fromKind, toKind))
	}

	result := r.callBridge(ctx, adapter, RouteParams{
		FromChainID: req.FromChain,
		ToChainID:   req.ToChain,
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		Amount:      req.Amount,
		SlippageBps: req.SlippageBps,
		Sender:      req.FromAddress,
		Recipient:   req.ToAddress,
	})
	if !result.Success {
		if result.Kind == FailNoRoute {
			msg := result.Err
			if msg == "" {
				msg = "No bridge routes found for this token pair."
			}
			return nil, domain.NewRoutingError(domain.CodeNoRouteFound, msg)
		}
		return nil, adapterError(result.Kind, result.Err, adapter.Name())
	}

	steps := make([]domain.RouteStep, len(result.Steps))
	copy(steps, result.Steps)
	routeType := domain.RouteTypeBridge
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = stepID(steps[i].Type)
		}
		if steps[i].Status == "" {
			steps[i].Status = domain.StepPending
		}
		if steps[i].Type == domain.StepDestinationSwap {
			routeType = domain.RouteTypeBridgeSwap
		}
	}

	// A cross-chain transfer cannot be a single atomic step in this model.
	if len(steps) < 2 {
		log.Error().
			Str("provider", adapter.Name()).
			Int("steps", len(steps)).
			Str("fromChain", req.FromChain).
			Str("toChain", req.ToChain).
			Msg("[resolver] bridge adapter returned a route with fewer than 2 steps")
		return nil, domain.NewRoutingError(domain.CodeInternalError,
			"bridge route resolved with fewer than 2 steps")
	}

	provider := result.Provider
	if provider == "" {
		provider = adapter.Name()
	}

	route := r.assemble(req, routeType, provider, reason, steps, routeAmounts{
		toAmount:     result.ToAmount,
		toAmountMin:  result.ToAmountMin,
		exchangeRate: result.ExchangeRate,
		priceImpact:  result.PriceImpact,
		estimatedGas: result.EstimatedGas,
		etaSeconds:   result.EtaSeconds,
		providerFees: result.Fees,
	})

	if ferr := r.attachFee(route, feeClass(routeType, fromKind, toKind)); ferr != nil {
		return nil, ferr
	}
	return route, nil
}

type routeAmounts struct {
	toAmount     string
	toAmountMin  string
	exchangeRate string
	priceImpact  string
	estimatedGas string
	etaSeconds   int64
	providerFees []domain.FeeInfo
}

// assemble stamps identity and enforces toAmountMin <= toAmount. routeId is
// unique per call even for identical requests so step tracking never
// collides across repeated quotes.
func (r *Resolver) assemble(req *domain.TransferRequest, routeType domain.RouteType, provider, reason string, steps []domain.RouteStep, amounts routeAmounts) *domain.Route {
	toAmountMin := amounts.toAmountMin
	if toAmountMin == "" {
		toAmountMin = amounts.toAmount
	}
	if minV, err1 := uint256.FromDecimal(toAmountMin); err1 == nil {
		if toV, err2 := uint256.FromDecimal(amounts.toAmount); err2 == nil && minV.Gt(toV) {
			log.Warn().
				Str("provider", provider).
				Str("toAmount", amounts.toAmount).
				Str("toAmountMin", toAmountMin).
				Msg("[resolver] provider reported toAmountMin above toAmount, clamping")
			toAmountMin = amounts.toAmount
		}
	}

	fees := make([]domain.FeeInfo, 0, len(amounts.providerFees)+1)
	fees = append(fees, amounts.providerFees...)

	return &domain.Route{
		RouteID:      uuid.NewString(),
		Mode:         req.Mode,
		RouteType:    routeType,
		Provider:     provider,
		FromChain:    req.FromChain,
		ToChain:      req.ToChain,
		FromToken:    domain.TokenInfo{Address: req.FromToken},
		ToToken:      domain.TokenInfo{Address: req.ToToken},
		FromAmount:   req.Amount,
		ToAmount:     amounts.toAmount,
		ToAmountMin:  toAmountMin,
		Steps:        steps,
		Fees:         fees,
		EstimatedGas: amounts.estimatedGas,
		EtaSeconds:   amounts.etaSeconds,
		ExchangeRate: amounts.exchangeRate,
		PriceImpact:  amounts.priceImpact,
		RouteReason:  reason,
		CreatedAt:    time.Now().UnixMilli(),
	}
}

func (r *Resolver) attachFee(route *domain.Route, class fees.Class) *domain.RoutingError {
	if r.fees == nil {
		return nil
	}
	line, err := r.fees.Breakdown(route.FromAmount, class)
	if err != nil {
		// Amount already passed validation, so this is a defect.
		log.Error().Err(err).Str("amount", route.FromAmount).Msg("[resolver] fee breakdown failed")
		return domain.NewRoutingError(domain.CodeInternalError, "fee breakdown failed")
	}
	line.Token = route.FromToken.Address
	route.Fees = append(route.Fees, *line)
	return nil
}

// callSwap bounds the adapter call with the per-call timeout and converts a
// contract-violating panic into a failure result instead of tearing down
// the request.
func (r *Resolver) callSwap(ctx context.Context, adapter SwapAdapter, params QuoteParams) (result QuoteResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("adapter", adapter.Name()).Msg("[resolver] swap adapter panicked")
			result = QuoteFailure(FailUpstream, fmt.Sprintf("adapter %s panicked", adapter.Name()))
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	result = adapter.GetQuote(cctx, params)
	observeAdapterCall(adapter.Name(), "quote", result.Success, start)
	return result
}

func (r *Resolver) callBridge(ctx context.Context, adapter BridgeAdapter, params RouteParams) (result RouteResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("adapter", adapter.Name()).Msg("[resolver] bridge adapter panicked")
			result = RouteFailure(FailUpstream, fmt.Sprintf("adapter %s panicked", adapter.Name()))
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	result = adapter.GetRoute(cctx, params)
	observeAdapterCall(adapter.Name(), "route", result.Success, start)
	return result
}

func observeAdapterCall(adapter, operation string, success bool, start time.Time) {
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.AdapterCalls.WithLabelValues(adapter, operation, status).Inc()
	metrics.AdapterDuration.WithLabelValues(adapter, operation).Observe(time.Since(start).Seconds())
}

func adapterError(kind FailureKind, msg, adapterName string) *domain.RoutingError {
	if msg == "" {
		msg = fmt.Sprintf("adapter %s failed without diagnostic", adapterName)
	}
	if kind == FailTransport {
		return domain.NewRoutingError(domain.CodeNetworkError, msg)
	}
	// Upstream diagnostics pass through unchanged; the engine does not
	// invent a more specific diagnosis than the provider gave.
	return domain.NewRoutingError(domain.CodeQuoteFailed, msg)
}

func feeClass(routeType domain.RouteType, fromKind, toKind chains.Kind) fees.Class {
	if fromKind == chains.KindCanton || toKind == chains.KindCanton {
		return fees.ClassOTC
	}
	if routeType == domain.RouteTypeSwap {
		return fees.ClassSwap
	}
	return fees.ClassBridge
}

func stepID(t domain.StepType) string {
	return fmt.Sprintf("step-%s-%s", t, uuid.NewString())
}
