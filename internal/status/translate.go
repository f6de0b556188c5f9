// Package status maps provider status vocabularies onto the canonical route
// state machine and drives the asynchronous completion polling.
package status

import (
	"strings"

	"github.com/cantonlink/route-engine/internal/domain"
)

// Translate maps an upstream bridge status string to a canonical state.
// Unrecognized values fail open to BRIDGING: closing early on an unknown
// intermediate status would strand a possibly-still-succeeding transfer.
func Translate(upstream string) string {
	switch strings.ToUpper(strings.TrimSpace(upstream)) {
	case "DONE", "COMPLETED", "SUCCESS", "FULFILLED", "CLAIMEDUNLOCK", "SENTUNLOCK", "COMPLETE":
		return domain.StateCompleted
	case "FAILED", "INVALID", "ORDERCANCELLED", "SENTORDERCANCEL", "CANCELLED", "REVERTED":
		return domain.StateFailed
	default:
		// PENDING, NOT_FOUND, and any provider-specific in-flight value.
		return domain.StateBridging
	}
}
