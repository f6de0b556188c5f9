package routing

import (
	"sync"

	"github.com/cantonlink/route-engine/internal/chains"
)

type bridgeKey struct {
	kind      chains.Kind
	transport string
}

// Registry binds adapters to ecosystems: one SwapAdapter slot per kind, and
// bridge slots keyed by (kind, transport) because more than one transport
// may serve the same ecosystem pair. Registration is idempotent
// last-writer-wins; lookups never observe a half-written slot. Writes
// normally finish before traffic starts, the lock exists for hot-swap and
// test injection.
type Registry struct {
	mu          sync.RWMutex
	swaps       map[chains.Kind]SwapAdapter
	bridges     map[bridgeKey]BridgeAdapter
	bridgeOrder map[chains.Kind][]string
}

func NewRegistry() *Registry {
	return &Registry{
		swaps:       make(map[chains.Kind]SwapAdapter),
		bridges:     make(map[bridgeKey]BridgeAdapter),
		bridgeOrder: make(map[chains.Kind][]string),
	}
}

// RegisterSwap binds the swap adapter for an ecosystem, replacing any
// previous binding.
func (r *Registry) RegisterSwap(kind chains.Kind, adapter SwapAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.swaps[kind] = adapter
}

// SwapFor returns the swap adapter bound to kind.
func (r *Registry) SwapFor(kind chains.Kind) (SwapAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.swaps[kind]
	return a, ok
}

// RegisterBridge binds a bridge adapter under (kind, transport). The first
// transport registered for a kind becomes its primary; re-registering an
// existing transport replaces the adapter without changing precedence.
func (r *Registry) RegisterBridge(kind chains.Kind, transport string, adapter BridgeAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bridgeKey{kind: kind, transport: transport}
	if _, exists := r.bridges[key]; !exists {
		r.bridgeOrder[kind] = append(r.bridgeOrder[kind], transport)
	}
	r.bridges[key] = adapter
}

// BridgeFor picks the primary bridge adapter for an ecosystem pair. The
// settlement network and Sui have dedicated transports, so either side
// being one of those pins the lookup; everything else falls back to the
// source ecosystem's primary transport.
func (r *Registry) BridgeFor(from, to chains.Kind) (BridgeAdapter, bool) {
	kind := bridgeLookupKind(from, to)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, transport := range r.bridgeOrder[kind] {
		if a, ok := r.bridges[bridgeKey{kind: kind, transport: transport}]; ok {
			return a, true
		}
	}
	return nil, false
}

// BridgeByTransport addresses a specific transport regardless of which kind
// it was registered under. Kept for status lookups with a tool hint and for
// a future multi-provider comparison path.
func (r *Registry) BridgeByTransport(transport string) (BridgeAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key, a := range r.bridges {
		if key.transport == transport {
			return a, true
		}
	}
	return nil, false
}

// BridgeTransports lists the transports registered for a kind in precedence
// order.
func (r *Registry) BridgeTransports(kind chains.Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.bridgeOrder[kind]))
	copy(out, r.bridgeOrder[kind])
	return out
}

func bridgeLookupKind(from, to chains.Kind) chains.Kind {
	if from == chains.KindCanton || to == chains.KindCanton {
		return chains.KindCanton
	}
	if from == chains.KindSui || to == chains.KindSui {
		return chains.KindSui
	}
	return from
}
