package mapengine

import (
	"log/slog"
	"sync"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
)

// Router creates engines on one sink and routes browser events to the
// engine they were addressed to. One Router serves one browser session.
type Router struct {
	sink Sink
	log  *slog.Logger

	mu      sync.Mutex
	engines map[string]*Engine
}

// NewRouter returns a Router writing to sink.
func NewRouter(sink Sink, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		sink:    sink,
		log:     log.With("component", "mapengine"),
		engines: make(map[string]*Engine),
	}
}

// Factory returns an EngineFactory that creates engines on this router.
func (r *Router) Factory() ports.EngineFactory {
	return func(opts domain.MapOptions) (ports.MapEngine, error) {
		return r.New(opts)
	}
}

// New creates an engine and asks the browser to build the map.
func (r *Router) New(opts domain.MapOptions) (*Engine, error) {
	e := newEngine(r.sink, r.log)
	e.onRemove = r.forget

	if err := e.sendLocked(Command{Op: OpCreate, Options: &opts}); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.engines[e.id] = e
	r.mu.Unlock()
	return e, nil
}

// Dispatch delivers ev to the engine with id mapID. Events for unknown or
// removed engines are dropped and false is returned.
func (r *Router) Dispatch(mapID string, ev domain.MapEvent) bool {
	r.mu.Lock()
	e, ok := r.engines[mapID]
	r.mu.Unlock()

	if !ok {
		r.log.Debug("dropping event for unknown map", "map", mapID, "type", ev.Type)
		return false
	}
	e.dispatch(ev)
	return true
}

// Len returns the number of live engines.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

func (r *Router) forget(id string) {
	r.mu.Lock()
	delete(r.engines, id)
	r.mu.Unlock()
}
