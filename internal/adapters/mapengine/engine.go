// Package mapengine implements ports.MapEngine for a map library running in
// the browser. Engine calls are sent as JSON commands over a Sink and browser
// events come back through Router.Dispatch.
package mapengine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
)

var (
	ErrDuplicateID  = errors.New("mapengine: duplicate id")
	ErrUnknownLayer = errors.New("mapengine: unknown layer")
	ErrRemoved      = errors.New("mapengine: engine removed")
)

// Command operations understood by the browser bridge.
const (
	OpCreate    = "create"
	OpAddSource = "addSource"
	OpSetData   = "setData"
	OpAddLayer  = "addLayer"
	OpListen    = "listen"
	OpCursor    = "cursor"
	OpPopup     = "popup"
	OpRemove    = "remove"
)

// Command is one instruction for the browser-side map.
type Command struct {
	Op      string                    `json:"op"`
	Map     string                    `json:"map"`
	ID      string                    `json:"id,omitempty"`
	Options *domain.MapOptions        `json:"options,omitempty"`
	Data    *domain.FeatureCollection `json:"data,omitempty"`
	Layer   *domain.Layer             `json:"layer,omitempty"`
	Before  string                    `json:"before,omitempty"`
	Event   domain.MapEventType       `json:"event,omitempty"`
	Cursor  *string                   `json:"cursor,omitempty"`
	Popup   *domain.Popup             `json:"popup,omitempty"`
}

// Sink delivers commands to the browser.
type Sink interface {
	Send(cmd Command) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(cmd Command) error

func (f SinkFunc) Send(cmd Command) error { return f(cmd) }

type handlerKey struct {
	event domain.MapEventType
	layer string
}

// Engine is one browser map instance.
type Engine struct {
	id   string
	sink Sink
	log  *slog.Logger

	// onRemove is called once when the engine is removed.
	onRemove func(id string)

	mu        sync.Mutex
	stack     []domain.StyleLayer
	sources   map[string]*Source
	handlers  map[handlerKey][]ports.MapEventHandler
	listening map[handlerKey]bool
	removed   bool
}

func newEngine(sink Sink, log *slog.Logger) *Engine {
	id := uuid.NewString()
	return &Engine{
		id:        id,
		sink:      sink,
		log:       log.With("map", id),
		sources:   make(map[string]*Source),
		handlers:  make(map[handlerKey][]ports.MapEventHandler),
		listening: make(map[handlerKey]bool),
	}
}

// ID returns the instance id carried on every command.
func (e *Engine) ID() string { return e.id }

// Style returns the layer stack: the base style reported on load plus every
// layer added since.
func (e *Engine) Style() []domain.StyleLayer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.StyleLayer(nil), e.stack...)
}

// Source returns a GeoJSON source by id.
func (e *Engine) Source(id string) (ports.GeoJSONSource, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sources[id]
	if !ok || e.removed {
		return nil, false
	}
	return s, true
}

// AddSource registers a GeoJSON source.
func (e *Engine) AddSource(id string, data *domain.FeatureCollection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return ErrRemoved
	}
	if _, ok := e.sources[id]; ok {
		return fmt.Errorf("source %q: %w", id, ErrDuplicateID)
	}
	if err := e.sendLocked(Command{Op: OpAddSource, ID: id, Data: data}); err != nil {
		return err
	}
	e.sources[id] = &Source{engine: e, id: id}
	return nil
}

// AddLayer inserts layer before beforeID, or on top when beforeID is empty.
func (e *Engine) AddLayer(layer domain.Layer, beforeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return ErrRemoved
	}
	if e.indexLocked(layer.ID) >= 0 {
		return fmt.Errorf("layer %q: %w", layer.ID, ErrDuplicateID)
	}
	idx := len(e.stack)
	if beforeID != "" {
		if idx = e.indexLocked(beforeID); idx < 0 {
			return fmt.Errorf("layer %q: %w", beforeID, ErrUnknownLayer)
		}
	}
	if err := e.sendLocked(Command{Op: OpAddLayer, Layer: &layer, Before: beforeID}); err != nil {
		return err
	}

	entry := domain.StyleLayer{ID: layer.ID, Type: layer.Type}
	e.stack = append(e.stack, domain.StyleLayer{})
	copy(e.stack[idx+1:], e.stack[idx:])
	e.stack[idx] = entry
	return nil
}

// HasLayer reports whether a layer with id is in the stack.
func (e *Engine) HasLayer(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexLocked(id) >= 0
}

func (e *Engine) indexLocked(id string) int {
	for i, l := range e.stack {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// On registers a handler. The first pointer-event handler for a layer asks
// the browser to start forwarding that event.
func (e *Engine) On(t domain.MapEventType, layerID string, h ports.MapEventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return
	}
	k := handlerKey{t, layerID}
	e.handlers[k] = append(e.handlers[k], h)

	if t == domain.EventLoad || e.listening[k] {
		return
	}
	if err := e.sendLocked(Command{Op: OpListen, Event: t, ID: layerID}); err != nil {
		e.log.Warn("listen", "event", t, "layer", layerID, "error", err)
		return
	}
	e.listening[k] = true
}

// SetCursor sets the canvas cursor. "" restores the default.
func (e *Engine) SetCursor(cursor string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return
	}
	if err := e.sendLocked(Command{Op: OpCursor, Cursor: &cursor}); err != nil {
		e.log.Warn("set cursor", "error", err)
	}
}

// OpenPopup shows p on the map.
func (e *Engine) OpenPopup(p domain.Popup) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return ErrRemoved
	}
	return e.sendLocked(Command{Op: OpPopup, Popup: &p})
}

// Remove tears down the browser map and drops every handler.
func (e *Engine) Remove() {
	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return
	}
	e.removed = true
	e.handlers = nil
	e.sources = nil
	if err := e.sendLocked(Command{Op: OpRemove}); err != nil {
		e.log.Debug("remove", "error", err)
	}
	onRemove := e.onRemove
	e.mu.Unlock()

	if onRemove != nil {
		onRemove(e.id)
	}
}

// dispatch runs the handlers registered for ev. Handlers run without the
// engine lock held so they may call back into the engine.
func (e *Engine) dispatch(ev domain.MapEvent) {
	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return
	}
	if ev.Type == domain.EventLoad {
		e.mergeStyleLocked(ev.Style)
	}
	layer := ev.Layer
	if ev.Type == domain.EventLoad {
		layer = ""
	}
	hs := append([]ports.MapEventHandler(nil), e.handlers[handlerKey{ev.Type, layer}]...)
	e.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}

// mergeStyleLocked installs the base style, keeping layers added before load on top.
func (e *Engine) mergeStyleLocked(style []domain.StyleLayer) {
	base := append([]domain.StyleLayer(nil), style...)
	for _, l := range e.stack {
		found := false
		for _, b := range base {
			if b.ID == l.ID {
				found = true
				break
			}
		}
		if !found {
			base = append(base, l)
		}
	}
	e.stack = base
}

func (e *Engine) sendLocked(cmd Command) error {
	cmd.Map = e.id
	if err := e.sink.Send(cmd); err != nil {
		return fmt.Errorf("send %s: %w", cmd.Op, err)
	}
	return nil
}

// Source is a GeoJSON source on an Engine.
type Source struct {
	engine *Engine
	id     string
}

// SetData replaces the source payload in place.
func (s *Source) SetData(data *domain.FeatureCollection) error {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return ErrRemoved
	}
	return e.sendLocked(Command{Op: OpSetData, ID: s.id, Data: data})
}
