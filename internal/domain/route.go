// Package domain holds the canonical route representation shared by the
// resolver, the provider adapters and the HTTP surface.
package domain

// RouteType is derived from chain topology and the resolved step plan,
// never supplied directly by the caller.
type RouteType string

const (
	RouteTypeSwap       RouteType = "swap"
	RouteTypeBridge     RouteType = "bridge"
	RouteTypeBridgeSwap RouteType = "bridge+swap"
)

// Step types, in the order they may legally appear in a plan. An approve
// step always precedes the step it gates.
type StepType string

const (
	StepApprove         StepType = "approve"
	StepSwap            StepType = "swap"
	StepBridgeSend      StepType = "bridgeSend"
	StepBridgeReceive   StepType = "bridgeReceive"
	StepDestinationSwap StepType = "destinationSwap"
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepExecuting StepStatus = "executing"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// TransactionData is the unsigned payload for one step. EVM steps carry
// calldata fields; Solana, Sui and Canton steps carry an opaque serialized
// transaction instead.
type TransactionData struct {
	To       string `json:"to,omitempty"`
	Data     string `json:"data,omitempty"`
	Value    string `json:"value,omitempty"`
	GasLimit string `json:"gasLimit,omitempty"`

	SerializedTransaction string `json:"serializedTransaction,omitempty"`
}

// RouteStep is one ordered unit of execution in a route plan.
type RouteStep struct {
	ID              string           `json:"id"`
	Type            StepType         `json:"type"`
	Description     string           `json:"description"`
	ChainID         string           `json:"chainId"`
	Tool            string           `json:"tool"`
	TransactionData *TransactionData `json:"transactionData,omitempty"`
	Status          StepStatus       `json:"status"`
	TxHash          string           `json:"txHash,omitempty"`
	Error           string           `json:"error,omitempty"`
	EtaSeconds      int64            `json:"etaSeconds,omitempty"`
}

// FeeInfo is a disclosed fee line. Platform fees are attached for display
// and are not deducted from the provider-reported amounts at quote time.
type FeeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FeeBps      uint16 `json:"feeBps"`
	Amount      string `json:"amount"`
	Token       string `json:"token,omitempty"`
}

// TokenInfo describes one side of the transfer. The resolver emits the
// address only; symbol and decimals are enriched best effort afterwards.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals uint8  `json:"decimals,omitempty"`
}

// Route is the normalized, provider-agnostic result of a resolution.
// Immutable once produced; execution state lives in PersistedRoute.
type Route struct {
	RouteID      string      `json:"routeId"`
	Mode         Mode        `json:"mode"`
	RouteType    RouteType   `json:"routeType"`
	Provider     string      `json:"provider"`
	FromChain    string      `json:"fromChain"`
	ToChain      string      `json:"toChain"`
	FromToken    TokenInfo   `json:"fromToken"`
	ToToken      TokenInfo   `json:"toToken"`
	FromAmount   string      `json:"fromAmount"`
	ToAmount     string      `json:"toAmount"`
	ToAmountMin  string      `json:"toAmountMin"`
	Steps        []RouteStep `json:"steps"`
	Fees         []FeeInfo   `json:"fees"`
	EstimatedGas string      `json:"estimatedGas,omitempty"`
	EtaSeconds   int64       `json:"etaSeconds,omitempty"`
	ExchangeRate string      `json:"exchangeRate,omitempty"`
	PriceImpact  string      `json:"priceImpact,omitempty"`
	RouteReason  string      `json:"routeReason,omitempty"`
	CreatedAt    int64       `json:"createdAt"`
}
