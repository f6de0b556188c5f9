package status

import (
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/cantonlink/route-engine/internal/adapters/persistence"
	"github.com/cantonlink/route-engine/internal/config"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/services"
)

const TRACKER_SERVICE = "tracker-service"

// TrackerService owns the route store and the status poller. Routes are
// handed to it after resolution; once a source tx hash is known the poller
// follows the bridge until a terminal state.
type TrackerService struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	storageCfg *config.StorageConfig
	trackerCfg *config.TrackerConfig

	store  persistence.RouteStore
	poller *Poller
}

func (svc *TrackerService) ID() string {
	return TRACKER_SERVICE
}

func (svc *TrackerService) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc.ID())
	svc.storageCfg = c.GetConfig(config.STORAGE_CONFIG_KEY).(*config.StorageConfig)
	svc.trackerCfg = c.GetConfig(config.TRACKER_CONFIG_KEY).(*config.TrackerConfig)
	return nil
}

func (svc *TrackerService) Start() error {
	var err error
	switch svc.storageCfg.Backend {
	case config.StorageBackendRedis:
		svc.store, err = persistence.NewRedisStore(svc.storageCfg.RedisAddr(), svc.storageCfg.RedisPassword, svc.storageCfg.RouteTTL)
	default:
		svc.store, err = persistence.NewBoltStore(svc.storageCfg.DBPath)
	}
	if err != nil {
		return err
	}

	svc.poller = NewPoller(svc.store, svc.trackerCfg.PollInterval, svc.trackerCfg.MaxPollWindow)
	svc.logger.Info().
		Str("backend", svc.storageCfg.Backend).
		Dur("pollInterval", svc.trackerCfg.PollInterval).
		Msg("route tracker started")
	return nil
}

func (svc *TrackerService) Stop() error {
	if svc.poller != nil {
		svc.poller.StopAll()
	}
	if svc.store == nil {
		return nil
	}
	return svc.store.Close()
}

// Track persists the record and, when a source tx hash is present, starts
// polling the bridge with the supplied fetch.
func (svc *TrackerService) Track(record *domain.PersistedRoute, fetch Fetch) error {
	if err := svc.store.Save(record); err != nil {
		return err
	}
	if record.FromTxHash != "" && !domain.IsTerminalState(record.Status) {
		svc.poller.Track(record.RouteID, fetch)
	}
	return nil
}

func (svc *TrackerService) Get(routeID string) (*domain.PersistedRoute, error) {
	return svc.store.Get(routeID)
}

func (svc *TrackerService) List() ([]*domain.PersistedRoute, error) {
	return svc.store.List()
}

func (svc *TrackerService) ActivePolls() int {
	return svc.poller.Active()
}
