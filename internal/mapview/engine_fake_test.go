package mapview_test

import (
	"fmt"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
)

// --- Fake engine ---

type fakeSource struct {
	data     *domain.FeatureCollection
	setCalls int
}

func (s *fakeSource) SetData(data *domain.FeatureCollection) error {
	s.data = data
	s.setCalls++
	return nil
}

type handlerKey struct {
	event domain.MapEventType
	layer string
}

type fakeEngine struct {
	opts     domain.MapOptions
	stack    []domain.StyleLayer
	sources  map[string]*fakeSource
	layers   map[string]domain.Layer
	handlers map[handlerKey][]ports.MapEventHandler
	cursor   string
	popups   []domain.Popup
	removed  bool
}

func newFakeEngine(opts domain.MapOptions, style []domain.StyleLayer) *fakeEngine {
	return &fakeEngine{
		opts:     opts,
		stack:    append([]domain.StyleLayer(nil), style...),
		sources:  make(map[string]*fakeSource),
		layers:   make(map[string]domain.Layer),
		handlers: make(map[handlerKey][]ports.MapEventHandler),
	}
}

func (e *fakeEngine) Style() []domain.StyleLayer {
	return append([]domain.StyleLayer(nil), e.stack...)
}

func (e *fakeEngine) Source(id string) (ports.GeoJSONSource, bool) {
	s, ok := e.sources[id]
	if !ok {
		return nil, false
	}
	return s, true
}

func (e *fakeEngine) AddSource(id string, data *domain.FeatureCollection) error {
	if _, ok := e.sources[id]; ok {
		return fmt.Errorf("source %q already exists", id)
	}
	e.sources[id] = &fakeSource{data: data}
	return nil
}

func (e *fakeEngine) AddLayer(layer domain.Layer, beforeID string) error {
	if e.HasLayer(layer.ID) {
		return fmt.Errorf("layer %q already exists", layer.ID)
	}
	entry := domain.StyleLayer{ID: layer.ID, Type: layer.Type}
	idx := len(e.stack)
	if beforeID != "" {
		idx = e.indexOf(beforeID)
		if idx < 0 {
			return fmt.Errorf("layer %q does not exist", beforeID)
		}
	}
	e.stack = append(e.stack[:idx], append([]domain.StyleLayer{entry}, e.stack[idx:]...)...)
	e.layers[layer.ID] = layer
	return nil
}

func (e *fakeEngine) HasLayer(id string) bool {
	return e.indexOf(id) >= 0
}

func (e *fakeEngine) indexOf(id string) int {
	for i, l := range e.stack {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (e *fakeEngine) On(t domain.MapEventType, layerID string, h ports.MapEventHandler) {
	k := handlerKey{t, layerID}
	e.handlers[k] = append(e.handlers[k], h)
}

func (e *fakeEngine) SetCursor(cursor string) { e.cursor = cursor }

func (e *fakeEngine) OpenPopup(p domain.Popup) error {
	e.popups = append(e.popups, p)
	return nil
}

func (e *fakeEngine) Remove() {
	e.removed = true
	e.handlers = make(map[handlerKey][]ports.MapEventHandler)
}

func (e *fakeEngine) fire(ev domain.MapEvent) {
	for _, h := range e.handlers[handlerKey{ev.Type, ev.Layer}] {
		h(ev)
	}
}

func (e *fakeEngine) handlerCount(t domain.MapEventType, layer string) int {
	return len(e.handlers[handlerKey{t, layer}])
}

// --- Fake factory ---

type fakeFactory struct {
	style   []domain.StyleLayer
	engines []*fakeEngine
	err     error
}

func (f *fakeFactory) New(opts domain.MapOptions) (ports.MapEngine, error) {
	if f.err != nil {
		return nil, f.err
	}
	e := newFakeEngine(opts, f.style)
	f.engines = append(f.engines, e)
	return e, nil
}

func (f *fakeFactory) last() *fakeEngine {
	if len(f.engines) == 0 {
		return nil
	}
	return f.engines[len(f.engines)-1]
}

func streetStyle() []domain.StyleLayer {
	return []domain.StyleLayer{
		{ID: "land", Type: "background"},
		{ID: "water", Type: "fill"},
		{ID: "road", Type: "line"},
		{ID: "road-label", Type: "symbol"},
		{ID: "poi-label", Type: "symbol"},
	}
}
