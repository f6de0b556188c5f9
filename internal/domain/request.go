package domain

import (
	"strings"

	"github.com/holiman/uint256"
)

// Mode constrains the topology of a transfer request.
type Mode string

const (
	ModeAuto       Mode = "AUTO"
	ModeSwapOnly   Mode = "SWAP_ONLY"
	ModeBridgeOnly Mode = "BRIDGE_ONLY"
)

const (
	DefaultSlippageBps uint16 = 50
	MaxSlippageBps     uint16 = 5000
)

// TransferRequest is the inbound request shape the resolver consumes.
// Amount is an integer string in the source token's minor units.
type TransferRequest struct {
	FromChain   string `json:"fromChain" binding:"required"`
	ToChain     string `json:"toChain" binding:"required"`
	FromToken   string `json:"fromToken" binding:"required"`
	ToToken     string `json:"toToken" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	SlippageBps uint16 `json:"slippageBps,omitempty"`
	Mode        Mode   `json:"mode,omitempty"`
	FromAddress string `json:"fromAddress,omitempty"`
	ToAddress   string `json:"toAddress,omitempty"`
}

// Normalize fills in defaults. Zero slippage means "not specified", not
// "no tolerance".
func (r *TransferRequest) Normalize() {
	r.FromChain = strings.TrimSpace(r.FromChain)
	r.ToChain = strings.TrimSpace(r.ToChain)
	if r.Mode == "" {
		r.Mode = ModeAuto
	}
	if r.SlippageBps == 0 {
		r.SlippageBps = DefaultSlippageBps
	}
}

// Validate checks request shape only. Chain and adapter checks happen later
// in the resolver so that malformed input never reaches the network.
func (r *TransferRequest) Validate() *RoutingError {
	if r.FromChain == "" || r.ToChain == "" {
		return NewRoutingError(CodeValidation, "fromChain and toChain are required")
	}
	if r.FromToken == "" || r.ToToken == "" {
		return NewRoutingError(CodeValidation, "fromToken and toToken are required")
	}

	amount, err := uint256.FromDecimal(r.Amount)
	if err != nil {
		return NewRoutingError(CodeValidation, "amount must be a base-10 integer string in minor units")
	}
	if amount.IsZero() {
		return NewRoutingError(CodeValidation, "amount must be greater than zero")
	}

	if r.SlippageBps < 1 || r.SlippageBps > MaxSlippageBps {
		return NewRoutingError(CodeValidation, "slippageBps must be between 1 and 5000")
	}

	switch r.Mode {
	case ModeAuto, ModeSwapOnly, ModeBridgeOnly:
	default:
		return NewRoutingError(CodeValidation, "mode must be AUTO, SWAP_ONLY or BRIDGE_ONLY")
	}

	return nil
}
