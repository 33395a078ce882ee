package ports

import (
	"context"

	"github.com/samirrijal/geodash/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishProjectsUpdated(ctx context.Context, count int) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeProjectsUpdated(ctx context.Context, handler func(ctx context.Context) error) (unsubscribe func(), err error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// MapEngine is the rendering engine boundary. An engine is created bound to
// a display surface, emits events to registered handlers and is released
// with Remove. Handlers are never invoked while a MapEngine method is
// running on the same goroutine.
type MapEngine interface {
	// Style returns the current style's layer stack, bottom to top.
	Style() []domain.StyleLayer
	// Source returns the GeoJSON source with the given id, if present.
	Source(id string) (GeoJSONSource, bool)
	AddSource(id string, data *domain.FeatureCollection) error
	// AddLayer inserts layer before the layer named beforeID, or on top
	// when beforeID is empty.
	AddLayer(layer domain.Layer, beforeID string) error
	HasLayer(id string) bool
	// On registers h for events of type t. layerID scopes pointer events to
	// one layer and is empty for map-wide events such as load.
	On(t domain.MapEventType, layerID string, h MapEventHandler)
	SetCursor(cursor string)
	OpenPopup(p domain.Popup) error
	// Remove releases the instance and detaches every handler.
	Remove()
}

// GeoJSONSource is a data source whose payload can be replaced in place.
type GeoJSONSource interface {
	SetData(data *domain.FeatureCollection) error
}

// MapEventHandler receives engine events.
type MapEventHandler func(ev domain.MapEvent)

// EngineFactory constructs a new engine instance.
type EngineFactory func(opts domain.MapOptions) (MapEngine, error)
