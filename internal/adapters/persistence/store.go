// Package persistence stores PersistedRoute records for status tracking.
// Two backends exist: an embedded BoltDB file and Redis. Record expiry is
// the store's concern, not the resolver's.
package persistence

import (
	"errors"

	"github.com/cantonlink/route-engine/internal/domain"
)

var ErrNotFound = errors.New("route not found")

// RouteStore is the opaque key-value contract keyed by routeId.
type RouteStore interface {
	Save(route *domain.PersistedRoute) error
	Get(routeID string) (*domain.PersistedRoute, error)
	List() ([]*domain.PersistedRoute, error)
	Close() error
}
