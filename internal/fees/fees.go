// Package fees computes the disclosed platform fee line attached to every
// resolved route. Fees are quoted in basis points of the source amount and
// are not deducted on-chain at quote time.
package fees

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/cantonlink/route-engine/internal/domain"
)

// Class selects which rate of the schedule applies. OTC covers transfers
// that touch the settlement network, where execution is an off-exchange
// ledger transfer rather than an AMM swap.
type Class uint8

const (
	ClassSwap Class = iota
	ClassBridge
	ClassOTC
)

const bpsDenominator = 10000

// Schedule holds the platform's basis-point rates per fee class.
type Schedule struct {
	name      string
	swapBps   uint16
	bridgeBps uint16
	otcBps    uint16
}

// NewSchedule builds a schedule with explicit rates. Rates above 100% are
// rejected at construction so Breakdown stays total.
func NewSchedule(name string, swapBps, bridgeBps, otcBps uint16) (*Schedule, error) {
	for _, bps := range []uint16{swapBps, bridgeBps, otcBps} {
		if bps >= bpsDenominator {
			return nil, fmt.Errorf("fee rate %d bps out of range", bps)
		}
	}
	if name == "" {
		name = "platform"
	}
	return &Schedule{name: name, swapBps: swapBps, bridgeBps: bridgeBps, otcBps: otcBps}, nil
}

func (s *Schedule) Rate(class Class) uint16 {
	switch class {
	case ClassBridge:
		return s.bridgeBps
	case ClassOTC:
		return s.otcBps
	default:
		return s.swapBps
	}
}

// Breakdown computes the fee line for amount (a minor-unit integer string).
// feeAmount = amount * bps / 10000, truncated.
func (s *Schedule) Breakdown(amount string, class Class) (*domain.FeeInfo, error) {
	value, err := uint256.FromDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid fee base amount %q: %w", amount, err)
	}

	bps := s.Rate(class)
	fee := new(uint256.Int).Mul(value, uint256.NewInt(uint64(bps)))
	fee.Div(fee, uint256.NewInt(bpsDenominator))

	return &domain.FeeInfo{
		Name:        s.name,
		Description: fmt.Sprintf("%s fee (%d bps), disclosed, not deducted from quote", classLabel(class), bps),
		FeeBps:      bps,
		Amount:      fee.Dec(),
	}, nil
}

// AfterFee returns amount minus the class fee, for callers that settle the
// fee out of band.
func (s *Schedule) AfterFee(amount string, class Class) (string, error) {
	value, err := uint256.FromDecimal(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	fee := new(uint256.Int).Mul(value, uint256.NewInt(uint64(s.Rate(class))))
	fee.Div(fee, uint256.NewInt(bpsDenominator))
	return new(uint256.Int).Sub(value, fee).Dec(), nil
}

func classLabel(class Class) string {
	switch class {
	case ClassBridge:
		return "bridge"
	case ClassOTC:
		return "OTC"
	default:
		return "swap"
	}
}
