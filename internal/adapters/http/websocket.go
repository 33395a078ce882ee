package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geodash/internal/adapters/mapengine"
	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/dashboard"
	"github.com/samirrijal/geodash/internal/mapview"
	"github.com/samirrijal/geodash/internal/pkg/metrics"
	"github.com/samirrijal/geodash/internal/pkg/telemetry"
)

// Client message types.
const (
	msgToggleView  = "toggle_view"
	msgSetView     = "set_view"
	msgToggleTheme = "toggle_theme"
	msgSetTheme    = "set_theme"
	msgRefresh     = "refresh"
	msgEvent       = "event"
)

// clientMessage is sent by the browser bridge.
type clientMessage struct {
	Type  string          `json:"type"`
	Mode  string          `json:"mode,omitempty"`
	Theme string          `json:"theme,omitempty"`
	Map   string          `json:"map,omitempty"`
	Event domain.MapEvent `json:"event"`
}

var errSessionClosed = errors.New("map session closed")

// serverMessage is sent to the browser bridge.
type serverMessage struct {
	Type    string             `json:"type"` // "command" | "state" | "error"
	Command *mapengine.Command `json:"command,omitempty"`
	State   *dashboard.State   `json:"state,omitempty"`
	Message string             `json:"message,omitempty"`
}

// MapSessionHandler returns a handler that runs one dashboard per WebSocket
// connection: a shell holding the page state, a map controller, and a
// browser-side engine driven through JSON commands. Every goroutine the
// session starts has finished, and nothing writes to the connection, by the
// time the handler returns and the connection is released.
func MapSessionHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		sessionID := uuid.NewString()
		log := slog.Default().With("session", sessionID, "remote", c.RemoteAddr().String())
		log.Info("map session opened")

		metrics.MapSessions.Inc()
		defer metrics.MapSessions.Dec()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanMapSession)
		defer span.End()

		var (
			mu     sync.Mutex // guards writes and closed
			closed bool
			wg     sync.WaitGroup
		)
		write := func(messageType int, data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return errSessionClosed
			}
			return c.WriteMessage(messageType, data)
		}
		writeJSON := func(v serverMessage) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return write(websocket.TextMessage, data)
		}

		router := mapengine.NewRouter(mapengine.SinkFunc(func(cmd mapengine.Command) error {
			return writeJSON(serverMessage{Type: "command", Command: &cmd})
		}), log)

		cfg := deps.Map
		cfg.Logger = log
		controller := mapview.NewController(router.Factory(), cfg)

		shell := dashboard.NewShell(controller, deps.source(), domain.SampleProjects())
		shell.OnChange = func(st dashboard.State) {
			if err := writeJSON(serverMessage{Type: "state", State: &st}); err != nil {
				log.Debug("write state", "error", err)
			}
		}

		initial := shell.Snapshot()
		_ = writeJSON(serverMessage{Type: "state", State: &initial})
		if err := controller.Create(initial.Inputs()); err != nil {
			log.Warn("map create failed", "error", err)
		}

		load := func(ctx context.Context) error {
			err := shell.Load(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		goLoad := func() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = load(ctx)
			}()
		}

		var unsubscribe func()
		done := make(chan struct{})

		// Shutdown order: stop loads and notifications, drop the event
		// subscription, wait for session goroutines, remove the map, then
		// refuse further writes before the connection is released.
		defer func() {
			cancel()
			shell.Close()
			if unsubscribe != nil {
				unsubscribe()
			}
			close(done)
			wg.Wait()
			controller.Dispose()

			mu.Lock()
			closed = true
			mu.Unlock()
		}()

		goLoad()

		if deps.Events != nil {
			// The handler runs on the subscriber's goroutine. After Close the
			// shell refuses loads, so a late delivery is a no-op.
			unsub, err := deps.Events.SubscribeProjectsUpdated(ctx, load)
			if err != nil {
				log.Warn("subscribe to catalogue updates", "error", err)
			} else {
				unsubscribe = unsub
			}
		}

		// Keep-alive ping
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := write(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m clientMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(serverMessage{Type: "error", Message: "invalid JSON"})
				continue
			}

			switch m.Type {
			case msgToggleView:
				shell.ToggleViewMode()
			case msgSetView:
				if m.Mode != string(domain.View2D) && m.Mode != string(domain.View3D) {
					_ = writeJSON(serverMessage{Type: "error", Message: "unknown view mode: " + m.Mode})
					continue
				}
				shell.SetViewMode(domain.ParseViewMode(m.Mode))
			case msgToggleTheme:
				shell.ToggleTheme()
			case msgSetTheme:
				shell.SetTheme(domain.ParseTheme(m.Theme))
			case msgRefresh:
				goLoad()
			case msgEvent:
				span.AddEvent(string(m.Event.Type), trace.WithAttributes(attribute.String(telemetry.AttrMapID, m.Map)))
				router.Dispatch(m.Map, m.Event)
			default:
				_ = writeJSON(serverMessage{Type: "error", Message: "unknown message type: " + m.Type})
			}
		}

		log.Info("map session closed")
	}
}
