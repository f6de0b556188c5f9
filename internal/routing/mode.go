package routing

import (
	"fmt"
	"strings"

	"github.com/cantonlink/route-engine/internal/domain"
)

// ValidateMode rejects mode/topology mismatches before any adapter is
// invoked. Chain identity is the concrete id, compared case-insensitively;
// "1" and "0x1" are distinct chains for this purpose.
func ValidateMode(mode domain.Mode, fromChain, toChain string) *domain.RoutingError {
	same := sameChain(fromChain, toChain)

	switch mode {
	case domain.ModeSwapOnly:
		if !same {
			return domain.NewRoutingError(
				domain.CodeModeSwapCrossChain,
				fmt.Sprintf("SWAP_ONLY requires the same chain on both sides, got %s -> %s", fromChain, toChain),
			)
		}
	case domain.ModeBridgeOnly:
		if same {
			return domain.NewRoutingError(
				domain.CodeModeBridgeSameChain,
				fmt.Sprintf("BRIDGE_ONLY requires different chains, got %s on both sides", fromChain),
			)
		}
	}

	// AUTO never fails here.
	return nil
}

// ResolveAutoRouteType derives the route type in AUTO mode from chain
// topology alone. Token addresses are deliberately not consulted; whether a
// destination-side swap leg is needed is the bridge adapter's decision.
func ResolveAutoRouteType(fromChain, toChain string) (domain.RouteType, string) {
	if sameChain(fromChain, toChain) {
		return domain.RouteTypeSwap, fmt.Sprintf("same-chain transfer on %s resolves to a swap", fromChain)
	}
	return domain.RouteTypeBridge, fmt.Sprintf("cross-chain transfer %s -> %s resolves to a bridge", fromChain, toChain)
}

func sameChain(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
