package status

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cantonlink/route-engine/internal/adapters/persistence"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/metrics"
)

// Fetch obtains one status observation for a route. Implemented by closing
// over the bridge adapter bound to the route's transport.
type Fetch func(ctx context.Context) (domain.BridgeStatus, error)

// Poller runs one stoppable periodic status check per tracked routeId.
// A tick is skipped while the previous call is still outstanding, transient
// fetch failures wait for the next tick, and the loop ends on a terminal
// state, Stop, or the max window. Routes hitting the window stay resumable.
type Poller struct {
	store    persistence.RouteStore
	interval time.Duration
	window   time.Duration

	mu    sync.Mutex
	tasks map[string]*pollTask
}

type pollTask struct {
	cancel   context.CancelFunc
	done     chan struct{}
	inFlight atomic.Bool
}

func NewPoller(store persistence.RouteStore, interval, window time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if window <= 0 {
		window = 30 * time.Minute
	}
	return &Poller{
		store:    store,
		interval: interval,
		window:   window,
		tasks:    make(map[string]*pollTask),
	}
}

// Track starts the poll loop for routeID. Tracking an already-tracked route
// restarts its loop.
func (p *Poller) Track(routeID string, fetch Fetch) {
	ctx, cancel := context.WithCancel(context.Background())
	task := &pollTask{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	if old, ok := p.tasks[routeID]; ok {
		old.cancel()
	}
	p.tasks[routeID] = task
	p.mu.Unlock()

	metrics.ActivePollers.Inc()
	go p.run(ctx, routeID, task, fetch)
}

// Stop cancels the poll loop for one route and waits for it to exit.
func (p *Poller) Stop(routeID string) {
	p.mu.Lock()
	task, ok := p.tasks[routeID]
	p.mu.Unlock()
	if !ok {
		return
	}
	task.cancel()
	<-task.done
}

// StopAll cancels every loop. Called at shutdown.
func (p *Poller) StopAll() {
	p.mu.Lock()
	tasks := make([]*pollTask, 0, len(p.tasks))
	for _, t := range p.tasks {
		tasks = append(tasks, t)
	}
	p.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
		<-t.done
	}
}

// Active reports how many routes are currently being polled.
func (p *Poller) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

func (p *Poller) run(ctx context.Context, routeID string, task *pollTask, fetch Fetch) {
	defer func() {
		p.mu.Lock()
		if p.tasks[routeID] == task {
			delete(p.tasks, routeID)
		}
		p.mu.Unlock()
		metrics.ActivePollers.Dec()
		close(task.done)
	}()

	deadline := time.Now().Add(p.window)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// First poll immediately so a fast bridge is not blind for a full tick.
	if terminal := p.poll(ctx, routeID, task, fetch); terminal {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Now().After(deadline) {
				log.Info().Str("routeId", routeID).Dur("window", p.window).
					Msg("[statusPoller] poll window elapsed, leaving route resumable")
				return
			}
			if terminal := p.poll(ctx, routeID, task, fetch); terminal {
				return
			}
		}
	}
}

// poll performs one status fetch and store update. Returns true when the
// route reached a terminal state.
func (p *Poller) poll(ctx context.Context, routeID string, task *pollTask, fetch Fetch) bool {
	if !task.inFlight.CompareAndSwap(false, true) {
		return false // previous call still outstanding, skip this tick
	}
	defer task.inFlight.Store(false)

	observed, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		// Transient failure: try again next interval, never FAILED.
		log.Warn().Str("routeId", routeID).Err(err).Msg("[statusPoller] status fetch failed, will retry")
		return false
	}

	record, err := p.store.Get(routeID)
	if err != nil {
		log.Warn().Str("routeId", routeID).Err(err).Msg("[statusPoller] route record missing, stopping poll")
		return true
	}

	p.apply(record, observed)
	if err := p.store.Save(record); err != nil {
		log.Error().Str("routeId", routeID).Err(err).Msg("[statusPoller] failed to persist status update")
	}

	metrics.StatusPolls.WithLabelValues(record.Provider, observed.State).Inc()

	if domain.IsTerminalState(observed.State) {
		log.Info().Str("routeId", routeID).Str("state", observed.State).Msg("[statusPoller] route reached terminal state")
		return true
	}
	return false
}

func (p *Poller) apply(record *domain.PersistedRoute, observed domain.BridgeStatus) {
	record.Status = observed.State
	record.UpdatedAt = time.Now().UnixMilli()
	if observed.FromTxHash != "" {
		record.FromTxHash = observed.FromTxHash
	}
	if observed.ToTxHash != "" {
		record.ToTxHash = observed.ToTxHash
	}
	if observed.ExplorerLink != "" {
		record.ExplorerLink = observed.ExplorerLink
	}

	for i := range record.Steps {
		step := &record.Steps[i]
		switch observed.State {
		case domain.StateCompleted:
			if step.Status != domain.StepSkipped {
				step.Status = domain.StepCompleted
			}
			if step.Type == domain.StepBridgeSend && record.FromTxHash != "" {
				step.TxHash = record.FromTxHash
			}
			if step.Type == domain.StepBridgeReceive && record.ToTxHash != "" {
				step.TxHash = record.ToTxHash
			}
		case domain.StateFailed:
			if step.Status == domain.StepExecuting || step.Status == domain.StepPending {
				step.Status = domain.StepFailed
				step.Error = observed.Substatus
			}
		default:
			if step.Type == domain.StepBridgeSend && step.Status == domain.StepPending {
				step.Status = domain.StepExecuting
			}
		}
	}
}
