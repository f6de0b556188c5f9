// Package routing is the route-resolution core: the mode enforcer, the
// adapter contracts and registry, and the resolver that turns a
// TransferRequest into one normalized Route or a typed RoutingError.
package routing

import (
	"context"

	"github.com/cantonlink/route-engine/internal/domain"
)

// FailureKind distinguishes why an adapter call failed so the resolver can
// pick the right error code without parsing message text.
type FailureKind uint8

const (
	// FailUpstream: the provider answered but could not produce a usable
	// quote (non-2xx, provider-reported error, missing credential).
	FailUpstream FailureKind = iota
	// FailTransport: the request never completed (dial error, timeout,
	// context cancellation).
	FailTransport
	// FailNoRoute: the provider answered with zero candidate routes.
	FailNoRoute
)

// QuoteParams is the input to a same-chain swap quote.
type QuoteParams struct {
	ChainID     string
	FromToken   string
	ToToken     string
	Amount      string
	SlippageBps uint16
	Sender      string
	Recipient   string
}

// QuoteResult is the normalized outcome of SwapAdapter.GetQuote. Failures
// are values: Success=false plus Err and Kind, never a panic.
type QuoteResult struct {
	Success bool
	Err     string
	Kind    FailureKind

	ToAmount     string
	ToAmountMin  string
	ExchangeRate string
	PriceImpact  string
	EstimatedGas string
	EtaSeconds   int64
	// ApprovalTarget is the spender to approve before executing, set only
	// when the sell token is a non-native asset with a signable payload.
	ApprovalTarget  string
	TransactionData *domain.TransactionData
	Fees            []domain.FeeInfo
}

// RouteParams is the input to a cross-chain route request.
type RouteParams struct {
	FromChainID string
	ToChainID   string
	FromToken   string
	ToToken     string
	Amount      string
	SlippageBps uint16
	Sender      string
	Recipient   string
}

// RouteResult is the normalized outcome of BridgeAdapter.GetRoute. Steps
// arrive in provider order, already tagged with tool identifiers; the
// resolver assigns ids and initial statuses.
type RouteResult struct {
	Success bool
	Err     string
	Kind    FailureKind

	Provider     string
	ToAmount     string
	ToAmountMin  string
	ExchangeRate string
	PriceImpact  string
	EstimatedGas string
	EtaSeconds   int64
	Steps        []domain.RouteStep
	Fees         []domain.FeeInfo
}

// StatusQuery identifies an in-flight bridge transfer to poll.
type StatusQuery struct {
	TxHash    string
	FromChain string
	ToChain   string
	// Tool optionally pins the transport ("lifi", "debridge", "xreserve")
	// when the caller tracked which adapter produced the route.
	Tool string
}

// SwapAdapter prices and optionally builds a same-chain exchange. When
// params.Sender is empty the adapter must return quote-only data with no
// signable payload.
type SwapAdapter interface {
	Name() string
	GetQuote(ctx context.Context, params QuoteParams) QuoteResult
}

// BridgeAdapter plans a cross-chain transfer and reports its asynchronous
// completion. GetStatus errors are transport errors only; provider states
// are translated into the canonical vocabulary before return.
type BridgeAdapter interface {
	Name() string
	GetRoute(ctx context.Context, params RouteParams) RouteResult
	GetStatus(ctx context.Context, query StatusQuery) (domain.BridgeStatus, error)
}

func QuoteFailure(kind FailureKind, err string) QuoteResult {
	return QuoteResult{Success: false, Kind: kind, Err: err}
}

func RouteFailure(kind FailureKind, err string) RouteResult {
	return RouteResult{Success: false, Kind: kind, Err: err}
}
