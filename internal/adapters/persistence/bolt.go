package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/metrics"
)

const (
	RoutesBucket = "routes"

	DefaultDBPath = "./data/route-engine.db"
)

type BoltStore struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewBoltStore(dbPath string) (*BoltStore, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[routeStore] opened bolt database")

	return &BoltStore{db: db, dbPath: dbPath}, nil
}

func (s *BoltStore) Save(route *domain.PersistedRoute) error {
	data, err := sonic.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route %s: %w", route.RouteID, err)
	}

	if err := s.db.Set(RoutesBucket, []byte(route.RouteID), data); err != nil {
		metrics.PersistenceErrors.WithLabelValues("save").Inc()
		return err
	}
	metrics.RoutesPersisted.Inc()
	return nil
}

func (s *BoltStore) Get(routeID string) (*domain.PersistedRoute, error) {
	data, err := s.db.List(RoutesBucket)
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	value, ok := data[routeID]
	if !ok {
		return nil, ErrNotFound
	}

	var route domain.PersistedRoute
	if err := sonic.Unmarshal(value, &route); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route %s: %w", routeID, err)
	}
	return &route, nil
}

func (s *BoltStore) List() ([]*domain.PersistedRoute, error) {
	data, err := s.db.List(RoutesBucket)
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	routes := make([]*domain.PersistedRoute, 0, len(data))
	failed := 0
	for routeID, value := range data {
		var route domain.PersistedRoute
		if err := sonic.Unmarshal(value, &route); err != nil {
			log.Error().Str("routeId", routeID).Err(err).Msg("[routeStore] failed to unmarshal route, skipping")
			failed++
			continue
		}
		routes = append(routes, &route)
	}

	if failed > 0 {
		log.Error().
			Int("total_in_db", len(data)).
			Int("loaded", len(routes)).
			Int("unmarshal_failed", failed).
			Msg("[routeStore] route loading completed with errors")
	}

	return routes, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
