package domain

// Canonical route lifecycle states. COMPLETED and FAILED are terminal.
const (
	StateIdle             = "IDLE"
	StateQuoted           = "QUOTED"
	StateApprovalRequired = "APPROVAL_REQUIRED"
	StateApproving        = "APPROVING"
	StateExecuting        = "EXECUTING"
	StateBridging         = "BRIDGING"
	StateCompleted        = "COMPLETED"
	StateFailed           = "FAILED"
)

// IsTerminalState reports whether state ends the route lifecycle.
func IsTerminalState(state string) bool {
	return state == StateCompleted || state == StateFailed
}

// BridgeStatus is one observation of an in-flight cross-chain transfer,
// already translated to the canonical vocabulary.
type BridgeStatus struct {
	State        string `json:"state"`
	Substatus    string `json:"substatus,omitempty"`
	FromTxHash   string `json:"fromTxHash,omitempty"`
	ToTxHash     string `json:"toTxHash,omitempty"`
	ExplorerLink string `json:"explorerLink,omitempty"`
}

// PersistedRoute is the execution-tracking record keyed by routeId. Created
// when the first signed step is submitted, mutated by the status poller,
// terminal at COMPLETED or FAILED. Expiry is the store's concern.
type PersistedRoute struct {
	RouteID      string      `json:"routeId"`
	Provider     string      `json:"provider"`
	Tool         string      `json:"tool,omitempty"`
	Status       string      `json:"status"`
	FromChain    string      `json:"fromChain"`
	ToChain      string      `json:"toChain"`
	FromTxHash   string      `json:"fromTxHash,omitempty"`
	ToTxHash     string      `json:"toTxHash,omitempty"`
	ExplorerLink string      `json:"explorerLink,omitempty"`
	Steps        []RouteStep `json:"steps,omitempty"`
	CreatedAt    int64       `json:"createdAt"`
	UpdatedAt    int64       `json:"updatedAt"`
}
