package routing

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/cantonlink/route-engine/internal/chains"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/fees"
)

type fakeSwap struct {
	name   string
	result QuoteResult
	calls  int
	last   QuoteParams
	panics bool
}

func (f *fakeSwap) Name() string { return f.name }

func (f *fakeSwap) GetQuote(_ context.Context, params QuoteParams) QuoteResult {
	f.calls++
	f.last = params
	if f.panics {
		panic("contract violation")
	}
	return f.result
}

type fakeBridge struct {
	name   string
	result RouteResult
	calls  int
	last   RouteParams
}

func (f *fakeBridge) Name() string { return f.name }

func (f *fakeBridge) GetRoute(_ context.Context, params RouteParams) RouteResult {
	f.calls++
	f.last = params
	return f.result
}

func (f *fakeBridge) GetStatus(context.Context, StatusQuery) (domain.BridgeStatus, error) {
	return domain.BridgeStatus{}, nil
}

// blockingSwap never answers on its own; it returns a transport failure only
// once the resolver's per-call timeout cancels the context, the way a real
// adapter surfaces an http client deadline.
type blockingSwap struct{ name string }

func (b *blockingSwap) Name() string { return b.name }

func (b *blockingSwap) GetQuote(ctx context.Context, _ QuoteParams) QuoteResult {
	<-ctx.Done()
	return QuoteFailure(FailTransport, "quote request failed: "+ctx.Err().Error())
}

type blockingBridge struct{ name string }

func (b *blockingBridge) Name() string { return b.name }

func (b *blockingBridge) GetRoute(ctx context.Context, _ RouteParams) RouteResult {
	<-ctx.Done()
	return RouteFailure(FailTransport, "route request failed: "+ctx.Err().Error())
}

func (b *blockingBridge) GetStatus(context.Context, StatusQuery) (domain.BridgeStatus, error) {
	return domain.BridgeStatus{}, nil
}

func testSchedule(t *testing.T) *fees.Schedule {
	t.Helper()
	schedule, err := fees.NewSchedule("cantonlink", 10, 15, 25)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	return schedule
}

func bridgeSteps() []domain.RouteStep {
	return []domain.RouteStep{
		{Type: domain.StepBridgeSend, Description: "Send", ChainID: "1", Tool: "stargate"},
		{Type: domain.StepBridgeReceive, Description: "Receive", ChainID: "42161", Tool: "stargate"},
	}
}

func swapRequest() *domain.TransferRequest {
	return &domain.TransferRequest{
		FromChain:   "1",
		ToChain:     "1",
		FromToken:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		ToToken:     "0xdac17f958d2ee523a2206206994597c13d831ec7",
		Amount:      "1000000",
		FromAddress: "0x1111111111111111111111111111111111111111",
	}
}

func bridgeRequest() *domain.TransferRequest {
	req := swapRequest()
	req.ToChain = "42161"
	return req
}

func TestResolveSwapWithApproval(t *testing.T) {
	adapter := &fakeSwap{
		name: "ParaSwap",
		result: QuoteResult{
			Success:        true,
			ToAmount:       "999000",
			ToAmountMin:    "994000",
			ExchangeRate:   "0.999",
			EstimatedGas:   "210000",
			EtaSeconds:     30,
			ApprovalTarget: "0x216b4b4ba9f3e719726886d34a177484278bfcae",
			TransactionData: &domain.TransactionData{
				To:   "0x216b4b4ba9f3e719726886d34a177484278bfcae",
				Data: "0xdeadbeef",
			},
		},
	}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	route, rerr := resolver.Resolve(context.Background(), swapRequest())
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if adapter.calls != 1 {
		t.Fatalf("adapter called %d times, want 1", adapter.calls)
	}

	if route.RouteType != domain.RouteTypeSwap {
		t.Errorf("routeType = %s, want swap", route.RouteType)
	}
	if route.RouteID == "" || route.CreatedAt == 0 {
		t.Error("route is missing identity fields")
	}
	if route.Mode != domain.ModeAuto {
		t.Errorf("mode = %s, want normalized AUTO", route.Mode)
	}
	if adapter.last.SlippageBps != domain.DefaultSlippageBps {
		t.Errorf("adapter saw slippage %d, want default %d", adapter.last.SlippageBps, domain.DefaultSlippageBps)
	}

	if len(route.Steps) != 2 {
		t.Fatalf("steps = %d, want approve then swap", len(route.Steps))
	}
	if route.Steps[0].Type != domain.StepApprove {
		t.Errorf("steps[0].type = %s, want approve", route.Steps[0].Type)
	}
	if route.Steps[0].TransactionData == nil || route.Steps[0].TransactionData.To != adapter.result.ApprovalTarget {
		t.Error("approve step does not target the approval spender")
	}
	if route.Steps[1].Type != domain.StepSwap || route.Steps[1].TransactionData == nil {
		t.Error("swap step is missing its transaction payload")
	}
	for i, step := range route.Steps {
		if step.ID == "" {
			t.Errorf("steps[%d] has no id", i)
		}
		if step.Status != domain.StepPending {
			t.Errorf("steps[%d].status = %s, want pending", i, step.Status)
		}
	}

	if len(route.Fees) != 1 {
		t.Fatalf("fees = %d, want the platform line", len(route.Fees))
	}
	fee := route.Fees[0]
	if fee.FeeBps != 10 {
		t.Errorf("fee bps = %d, want 10 for same-chain swap", fee.FeeBps)
	}
	if fee.Amount != "1000" {
		t.Errorf("fee amount = %s, want 1000 (10 bps of 1000000)", fee.Amount)
	}
	if fee.Token != route.FromToken.Address {
		t.Errorf("fee token = %s, want the source token", fee.Token)
	}
}

func TestResolveSwapQuoteOnly(t *testing.T) {
	adapter := &fakeSwap{
		name:   "Jupiter",
		result: QuoteResult{Success: true, ToAmount: "5000", ToAmountMin: "4975"},
	}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindSolana, adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	req := swapRequest()
	req.FromChain, req.ToChain = "solana", "solana"
	req.FromAddress = ""

	route, rerr := resolver.Resolve(context.Background(), req)
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if len(route.Steps) != 1 {
		t.Fatalf("steps = %d, want a single swap step without approval", len(route.Steps))
	}
	if route.Steps[0].TransactionData != nil {
		t.Error("quote-only route carries transaction data")
	}
}

func TestResolveSwapSkipsApprovalForNativeToken(t *testing.T) {
	adapter := &fakeSwap{
		name: "1inch",
		result: QuoteResult{
			Success:         true,
			ToAmount:        "3000000000",
			ApprovalTarget:  "0x111111125421ca6dc452d289314280a0f8842a65",
			TransactionData: &domain.TransactionData{To: "0x111111125421ca6dc452d289314280a0f8842a65"},
		},
	}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	req := swapRequest()
	req.FromToken = chains.NativeEVMToken

	route, rerr := resolver.Resolve(context.Background(), req)
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if len(route.Steps) != 1 || route.Steps[0].Type != domain.StepSwap {
		t.Errorf("native-token sell produced %d steps, want one swap step", len(route.Steps))
	}
}

func TestResolveModeViolationsSkipAdapters(t *testing.T) {
	swap := &fakeSwap{name: "ParaSwap", result: QuoteResult{Success: true}}
	bridge := &fakeBridge{name: "LI.FI", result: RouteResult{Success: true, Steps: bridgeSteps()}}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, swap)
	reg.RegisterBridge(chains.KindEVM, "lifi", bridge)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	tests := []struct {
		name     string
		mutate   func(*domain.TransferRequest)
		wantCode string
	}{
		{
			name: "swap only across chains",
			mutate: func(r *domain.TransferRequest) {
				r.ToChain = "42161"
				r.Mode = domain.ModeSwapOnly
			},
			wantCode: domain.CodeModeSwapCrossChain,
		},
		{
			name:     "bridge only on one chain",
			mutate:   func(r *domain.TransferRequest) { r.Mode = domain.ModeBridgeOnly },
			wantCode: domain.CodeModeBridgeSameChain,
		},
		{
			name:     "zero amount",
			mutate:   func(r *domain.TransferRequest) { r.Amount = "0" },
			wantCode: domain.CodeValidation,
		},
		{
			name:     "slippage above cap",
			mutate:   func(r *domain.TransferRequest) { r.SlippageBps = 5001 },
			wantCode: domain.CodeValidation,
		},
		{
			name:     "unknown source chain",
			mutate:   func(r *domain.TransferRequest) { r.FromChain = "near" },
			wantCode: domain.CodeUnsupportedChain,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := swapRequest()
			tt.mutate(req)

			route, rerr := resolver.Resolve(context.Background(), req)
			if route != nil {
				t.Fatal("rejected request still produced a route")
			}
			if rerr == nil || rerr.Code != tt.wantCode {
				t.Fatalf("error = %v, want code %s", rerr, tt.wantCode)
			}
			if swap.calls != 0 || bridge.calls != 0 {
				t.Errorf("adapters were called (%d swap, %d bridge) before validation passed", swap.calls, bridge.calls)
			}
		})
	}
}

func TestResolveNoAdapter(t *testing.T) {
	resolver := NewResolver(NewRegistry(), testSchedule(t), time.Second)

	_, rerr := resolver.Resolve(context.Background(), swapRequest())
	if rerr == nil || rerr.Code != domain.CodeNoAdapter {
		t.Fatalf("error = %v, want NO_ADAPTER", rerr)
	}
	if !strings.Contains(rerr.Message, "no swap adapter registered for evm") {
		t.Errorf("message = %q", rerr.Message)
	}

	_, rerr = resolver.Resolve(context.Background(), bridgeRequest())
	if rerr == nil || rerr.Code != domain.CodeNoAdapter {
		t.Fatalf("error = %v, want NO_ADAPTER", rerr)
	}
	if !strings.Contains(rerr.Message, "no bridge adapter registered for evm -> evm") {
		t.Errorf("message = %q", rerr.Message)
	}
}

func TestResolveBridge(t *testing.T) {
	adapter := &fakeBridge{
		name: "LI.FI",
		result: RouteResult{
			Success:     true,
			Provider:    "LI.FI",
			ToAmount:    "995000",
			ToAmountMin: "990000",
			EtaSeconds:  180,
			Steps:       bridgeSteps(),
			Fees:        []domain.FeeInfo{{Name: "Gas cost", Amount: "1.20", Token: "USD"}},
		},
	}
	reg := NewRegistry()
	reg.RegisterBridge(chains.KindEVM, "lifi", adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	route, rerr := resolver.Resolve(context.Background(), bridgeRequest())
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if route.RouteType != domain.RouteTypeBridge {
		t.Errorf("routeType = %s, want bridge", route.RouteType)
	}
	if adapter.last.ToChainID != "42161" {
		t.Errorf("adapter saw toChain %s, want 42161", adapter.last.ToChainID)
	}
	if len(route.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(route.Steps))
	}
	for i, step := range route.Steps {
		if step.ID == "" || step.Status != domain.StepPending {
			t.Errorf("steps[%d] missing assigned id or pending status", i)
		}
	}
	if len(route.Fees) != 2 {
		t.Fatalf("fees = %d, want provider line plus platform line", len(route.Fees))
	}
	platform := route.Fees[1]
	if platform.FeeBps != 15 {
		t.Errorf("platform fee = %d bps, want 15 for a bridge", platform.FeeBps)
	}
	if platform.Amount != "1500" {
		t.Errorf("platform fee amount = %s, want 1500", platform.Amount)
	}
}

func TestResolveBridgeWithDestinationSwap(t *testing.T) {
	steps := append(bridgeSteps(), domain.RouteStep{
		Type: domain.StepDestinationSwap, Description: "Swap on arrival", ChainID: "42161", Tool: "uniswap",
	})
	adapter := &fakeBridge{
		name:   "LI.FI",
		result: RouteResult{Success: true, ToAmount: "990000", Steps: steps},
	}
	reg := NewRegistry()
	reg.RegisterBridge(chains.KindEVM, "lifi", adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	route, rerr := resolver.Resolve(context.Background(), bridgeRequest())
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if route.RouteType != domain.RouteTypeBridgeSwap {
		t.Errorf("routeType = %s, want bridge+swap", route.RouteType)
	}
}

func TestResolveBridgeFailures(t *testing.T) {
	tests := []struct {
		name        string
		result      RouteResult
		wantCode    string
		wantMessage string
	}{
		{
			name:        "no route with provider message",
			result:      RouteFailure(FailNoRoute, "no liquidity on this corridor"),
			wantCode:    domain.CodeNoRouteFound,
			wantMessage: "no liquidity on this corridor",
		},
		{
			name:        "no route without message gets the default",
			result:      RouteFailure(FailNoRoute, ""),
			wantCode:    domain.CodeNoRouteFound,
			wantMessage: "No bridge routes found for this token pair.",
		},
		{
			name:        "transport failure",
			result:      RouteFailure(FailTransport, "request timed out"),
			wantCode:    domain.CodeNetworkError,
			wantMessage: "request timed out",
		},
		{
			name:        "upstream failure",
			result:      RouteFailure(FailUpstream, "provider rejected the pair"),
			wantCode:    domain.CodeQuoteFailed,
			wantMessage: "provider rejected the pair",
		},
		{
			name:        "upstream failure without diagnostic",
			result:      RouteFailure(FailUpstream, ""),
			wantCode:    domain.CodeQuoteFailed,
			wantMessage: "adapter LI.FI failed without diagnostic",
		},
		{
			name:     "single step route is a defect",
			result:   RouteResult{Success: true, ToAmount: "1", Steps: bridgeSteps()[:1]},
			wantCode: domain.CodeInternalError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.RegisterBridge(chains.KindEVM, "lifi", &fakeBridge{name: "LI.FI", result: tt.result})
			resolver := NewResolver(reg, testSchedule(t), time.Second)

			route, rerr := resolver.Resolve(context.Background(), bridgeRequest())
			if route != nil {
				t.Fatal("failed resolution still produced a route")
			}
			if rerr == nil || rerr.Code != tt.wantCode {
				t.Fatalf("error = %v, want code %s", rerr, tt.wantCode)
			}
			if tt.wantMessage != "" && rerr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", rerr.Message, tt.wantMessage)
			}
		})
	}
}

func TestResolveClampsToAmountMin(t *testing.T) {
	adapter := &fakeSwap{
		name:   "ParaSwap",
		result: QuoteResult{Success: true, ToAmount: "1000", ToAmountMin: "2000"},
	}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	route, rerr := resolver.Resolve(context.Background(), swapRequest())
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if route.ToAmountMin != "1000" {
		t.Errorf("toAmountMin = %s, want clamped to toAmount", route.ToAmountMin)
	}
}

func TestResolveFillsEmptyToAmountMin(t *testing.T) {
	adapter := &fakeSwap{
		name:   "ParaSwap",
		result: QuoteResult{Success: true, ToAmount: "1000"},
	}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	route, rerr := resolver.Resolve(context.Background(), swapRequest())
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if route.ToAmountMin != "1000" {
		t.Errorf("toAmountMin = %s, want toAmount when provider omitted it", route.ToAmountMin)
	}
}

func TestResolveCantonPairUsesOTCRate(t *testing.T) {
	adapter := &fakeBridge{
		name:   "Canton xReserve",
		result: RouteResult{Success: true, ToAmount: "1000000", Steps: bridgeSteps()},
	}
	reg := NewRegistry()
	reg.RegisterBridge(chains.KindCanton, "xreserve", adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	req := bridgeRequest()
	req.ToChain = "canton"
	req.ToToken = "canton:usdc"

	route, rerr := resolver.Resolve(context.Background(), req)
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	platform := route.Fees[len(route.Fees)-1]
	if platform.FeeBps != 25 {
		t.Errorf("fee = %d bps, want the 25 bps OTC rate for settlement transfers", platform.FeeBps)
	}
}

func TestResolveSwapAdapterPanic(t *testing.T) {
	adapter := &fakeSwap{name: "ParaSwap", panics: true}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	route, rerr := resolver.Resolve(context.Background(), swapRequest())
	if route != nil {
		t.Fatal("panicking adapter still produced a route")
	}
	if rerr == nil || rerr.Code != domain.CodeQuoteFailed {
		t.Fatalf("error = %v, want QUOTE_FAILED", rerr)
	}
	if !strings.Contains(rerr.Message, "panicked") {
		t.Errorf("message = %q, want a panic diagnostic", rerr.Message)
	}
}

func TestResolveAdapterTimeout(t *testing.T) {
	const timeout = 100 * time.Millisecond

	tests := []struct {
		name string
		req  *domain.TransferRequest
		reg  func() *Registry
	}{
		{
			name: "stalled swap adapter",
			req:  swapRequest(),
			reg: func() *Registry {
				reg := NewRegistry()
				reg.RegisterSwap(chains.KindEVM, &blockingSwap{name: "ParaSwap"})
				return reg
			},
		},
		{
			name: "stalled bridge adapter",
			req:  bridgeRequest(),
			reg: func() *Registry {
				reg := NewRegistry()
				reg.RegisterBridge(chains.KindEVM, "lifi", &blockingBridge{name: "LI.FI"})
				return reg
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(tt.reg(), testSchedule(t), timeout)

			start := time.Now()
			route, rerr := resolver.Resolve(context.Background(), tt.req)
			elapsed := time.Since(start)

			if route != nil {
				t.Fatal("timed-out resolution still produced a route")
			}
			if rerr == nil || rerr.Code != domain.CodeNetworkError {
				t.Fatalf("error = %v, want NETWORK_ERROR", rerr)
			}
			if !strings.Contains(rerr.Message, "context deadline exceeded") {
				t.Errorf("message = %q, want the deadline diagnostic", rerr.Message)
			}
			// The per-call timeout bounds the whole resolution, with slack
			// for scheduler jitter.
			if elapsed > 10*timeout {
				t.Errorf("Resolve took %v with a %v adapter timeout", elapsed, timeout)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	adapter := &fakeSwap{
		name: "ParaSwap",
		result: QuoteResult{
			Success:        true,
			ToAmount:       "999000",
			ToAmountMin:    "994000",
			ExchangeRate:   "0.999",
			EstimatedGas:   "210000",
			EtaSeconds:     30,
			ApprovalTarget: "0x216b4b4ba9f3e719726886d34a177484278bfcae",
			TransactionData: &domain.TransactionData{
				To:   "0x216b4b4ba9f3e719726886d34a177484278bfcae",
				Data: "0xdeadbeef",
			},
		},
	}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, adapter)
	resolver := NewResolver(reg, testSchedule(t), time.Second)

	first, rerr := resolver.Resolve(context.Background(), swapRequest())
	if rerr != nil {
		t.Fatalf("first Resolve() error = %v", rerr)
	}
	second, rerr := resolver.Resolve(context.Background(), swapRequest())
	if rerr != nil {
		t.Fatalf("second Resolve() error = %v", rerr)
	}

	if first.RouteID == second.RouteID {
		t.Error("repeated resolutions share a routeId")
	}

	// Identity fields are fresh per call; everything else must match.
	norm := func(r *domain.Route) domain.Route {
		c := *r
		c.RouteID = ""
		c.CreatedAt = 0
		c.Steps = make([]domain.RouteStep, len(r.Steps))
		copy(c.Steps, r.Steps)
		for i := range c.Steps {
			c.Steps[i].ID = ""
		}
		return c
	}
	a, b := norm(first), norm(second)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("resolutions differ beyond identity fields:\n first: %+v\nsecond: %+v", a, b)
	}
}

func TestResolveWithoutFeeProvider(t *testing.T) {
	adapter := &fakeSwap{name: "ParaSwap", result: QuoteResult{Success: true, ToAmount: "1"}}
	reg := NewRegistry()
	reg.RegisterSwap(chains.KindEVM, adapter)
	resolver := NewResolver(reg, nil, time.Second)

	route, rerr := resolver.Resolve(context.Background(), swapRequest())
	if rerr != nil {
		t.Fatalf("Resolve() error = %v", rerr)
	}
	if len(route.Fees) != 0 {
		t.Errorf("fees = %d, want none without a schedule", len(route.Fees))
	}
}
