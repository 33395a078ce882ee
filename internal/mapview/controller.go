package mapview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
	"github.com/samirrijal/geodash/internal/pkg/metrics"
)

// State is the lifecycle stage of a Controller.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateLoaded
	StateSynchronizing
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateLoaded:
		return "loaded"
	case StateSynchronizing:
		return "synchronizing"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config is the static configuration of a map view.
type Config struct {
	AccessToken string
	LightStyle  string
	DarkStyle   string
	Center      domain.GeoPoint
	Zoom        float64
	Locale      language.Tag
	DateLayout  string
	Logger      *slog.Logger
}

// DefaultConfig centers on Tbilisi with the stock light/dark styles.
func DefaultConfig() Config {
	return Config{
		LightStyle: "mapbox://styles/mapbox/light-v11",
		DarkStyle:  "mapbox://styles/mapbox/dark-v11",
		Center:     domain.GeoPoint{Lat: 41.7167, Lon: 44.7833},
		Zoom:       12,
		Locale:     language.AmericanEnglish,
	}
}

// Controller owns one engine instance for the lifetime of a mount.
// It is safe for concurrent use.
type Controller struct {
	factory ports.EngineFactory
	cfg     Config
	format  *Formatter
	log     *slog.Logger

	mu     sync.Mutex
	engine ports.MapEngine
	built  domain.ViewInputs // theme and pitch the live engine was created with
	inputs domain.ViewInputs
	loaded bool
	state  State
}

// NewController returns an uninitialized controller.
func NewController(factory ports.EngineFactory, cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		factory: factory,
		cfg:     cfg,
		format:  NewFormatter(cfg.Locale, cfg.DateLayout),
		log:     log.With("component", "mapview"),
		state:   StateUninitialized,
	}
}

// State returns the current lifecycle stage.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Create builds the engine for in. It is a no-op while an instance is live.
func (c *Controller) Create(in domain.ViewInputs) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inputs = normalize(in)
	if c.engine != nil {
		return nil
	}
	return c.createLocked()
}

// Synchronize records new inputs and brings the engine in line with them.
// A theme or pitch change recreates the engine; a project change replaces
// the point source payload once the style has loaded.
func (c *Controller) Synchronize(in domain.ViewInputs) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inputs = normalize(in)
	if c.engine == nil {
		return nil
	}

	if c.inputs.Theme != c.built.Theme || c.inputs.IsPitched != c.built.IsPitched {
		c.log.Debug("view configuration changed, recreating map",
			"theme", c.inputs.Theme, "pitched", c.inputs.IsPitched)
		c.releaseLocked()
		return c.createLocked()
	}

	return c.syncLocked()
}

// Dispose releases the engine. A later Create starts a fresh instance.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	c.state = StateDisposed
}

func (c *Controller) options(in domain.ViewInputs) domain.MapOptions {
	opts := domain.MapOptions{
		AccessToken: c.cfg.AccessToken,
		Style:       c.cfg.LightStyle,
		Center:      c.cfg.Center.LngLat(),
		Zoom:        c.cfg.Zoom,
	}
	if in.Theme == domain.ThemeDark {
		opts.Style = c.cfg.DarkStyle
	}
	if in.IsPitched {
		opts.Pitch = 60
		opts.Bearing = 30
	}
	return opts
}

func (c *Controller) createLocked() error {
	opts := c.options(c.inputs)
	if opts.AccessToken == "" {
		c.log.Warn("map access token is not set, map tiles will not load")
	}

	engine, err := c.factory(opts)
	if err != nil {
		c.state = StateUninitialized
		return fmt.Errorf("create map: %w", err)
	}

	c.engine = engine
	c.built = c.inputs
	c.loaded = false
	c.state = StateInitializing
	metrics.MapInstances.Inc()

	engine.On(domain.EventLoad, "", func(ev domain.MapEvent) { c.onLoad(engine) })
	return nil
}

func (c *Controller) releaseLocked() {
	if c.engine == nil {
		return
	}
	c.engine.Remove()
	c.engine = nil
	c.loaded = false
	metrics.MapInstances.Dec()
}

func (c *Controller) onLoad(engine ports.MapEngine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != engine {
		return
	}
	c.loaded = true
	c.state = StateLoaded

	if c.built.IsPitched {
		c.addBuildingsLocked()
	}
	if err := c.syncLocked(); err != nil {
		c.log.Error("synchronize after load", "error", err)
	}
}

func (c *Controller) addBuildingsLocked() {
	if c.engine.HasLayer(BuildingsLayerID) {
		return
	}
	before := firstSymbolLayer(c.engine.Style())
	if before == "" {
		c.log.Debug("style has no symbol layer, skipping 3d buildings")
		return
	}
	if err := c.engine.AddLayer(buildingsLayer(c.built.Theme), before); err != nil {
		c.log.Warn("add 3d buildings layer", "error", err)
	}
}

func (c *Controller) syncLocked() error {
	if !c.loaded || c.engine == nil || len(c.inputs.Projects) == 0 {
		return nil
	}

	c.state = StateSynchronizing
	defer func() { c.state = StateLoaded }()

	fc := BuildFeatureCollection(c.inputs.Projects, c.log)

	if src, ok := c.engine.Source(SourceID); ok {
		if err := src.SetData(fc); err != nil {
			return fmt.Errorf("replace project data: %w", err)
		}
		metrics.MapSyncs.WithLabelValues("replace").Inc()
		return nil
	}

	if err := c.engine.AddSource(SourceID, fc); err != nil {
		return fmt.Errorf("add project source: %w", err)
	}
	if err := c.engine.AddLayer(circleLayer(c.built.Theme), ""); err != nil {
		return fmt.Errorf("add project layer: %w", err)
	}

	engine := c.engine
	engine.On(domain.EventMouseEnter, CircleLayerID, func(domain.MapEvent) { c.setCursor(engine, "pointer") })
	engine.On(domain.EventMouseLeave, CircleLayerID, func(domain.MapEvent) { c.setCursor(engine, "") })
	engine.On(domain.EventClick, CircleLayerID, func(ev domain.MapEvent) { c.onClick(engine, ev) })

	metrics.MapSyncs.WithLabelValues("create").Inc()
	return nil
}

func (c *Controller) setCursor(engine ports.MapEngine, cursor string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != engine {
		return
	}
	engine.SetCursor(cursor)
}

func (c *Controller) onClick(engine ports.MapEngine, ev domain.MapEvent) {
	if len(ev.Features) == 0 {
		return
	}
	feature := ev.Features[0]
	at, ok := feature.Point()
	if !ok {
		c.log.Warn("clicked feature has no point geometry")
		return
	}

	content := c.format.Popup(feature.Properties)
	html, err := content.HTML(context.Background())
	if err != nil {
		c.log.Error("render popup", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != engine {
		return
	}
	if err := engine.OpenPopup(domain.Popup{LngLat: at.LngLat(), HTML: html}); err != nil {
		c.log.Warn("open popup", "error", err)
		return
	}
	metrics.PopupsOpened.Inc()
}

func normalize(in domain.ViewInputs) domain.ViewInputs {
	if in.Theme != domain.ThemeDark {
		in.Theme = domain.ThemeLight
	}
	return in
}
