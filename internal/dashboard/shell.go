// Package dashboard holds the page-level state of one dashboard viewer and
// pushes it into the map view whenever it changes.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/core/ports"
	"github.com/samirrijal/geodash/internal/pkg/metrics"
	"github.com/samirrijal/geodash/internal/pkg/telemetry"
)

// LoadErrorMessage is shown when the project list cannot be fetched.
const LoadErrorMessage = "Failed to load project data. Is the backend running?"

// MapView receives the shell's inputs. *mapview.Controller satisfies it.
type MapView interface {
	Synchronize(in domain.ViewInputs) error
}

// State is a snapshot of the shell.
type State struct {
	Projects  []domain.Project `json:"projects"`
	IsLoading bool             `json:"isLoading"`
	Error     string           `json:"error,omitempty"`
	ViewMode  domain.ViewMode  `json:"viewMode"`
	Theme     domain.Theme     `json:"theme"`
}

// Inputs derives the map view inputs from the state.
func (s State) Inputs() domain.ViewInputs {
	return domain.ViewInputs{
		Projects:  s.Projects,
		IsPitched: s.ViewMode == domain.View3D,
		Theme:     s.Theme,
	}
}

// Shell owns the dashboard state. It is safe for concurrent use.
type Shell struct {
	view   MapView
	source ports.ProjectSource
	log    *slog.Logger

	// OnChange, when set, is called with every new snapshot.
	OnChange func(State)

	notifyMu sync.Mutex // orders view/OnChange notifications

	mu         sync.Mutex
	state      State
	generation uint64
	cancelLoad context.CancelFunc
	closed     bool
}

// NewShell returns a shell in 2D light mode holding initial.
// source may be nil when the project list is supplied with SetProjects.
func NewShell(view MapView, source ports.ProjectSource, initial []domain.Project) *Shell {
	return &Shell{
		view:   view,
		source: source,
		log:    slog.Default().With("component", "dashboard"),
		state: State{
			Projects: initial,
			ViewMode: domain.View2D,
			Theme:    domain.ThemeLight,
		},
	}
}

// Snapshot returns the current state.
func (s *Shell) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetViewMode switches between the flat and pitched camera.
func (s *Shell) SetViewMode(mode domain.ViewMode) {
	s.update(func(st *State) { st.ViewMode = mode })
}

// ToggleViewMode flips between 2D and 3D.
func (s *Shell) ToggleViewMode() {
	s.update(func(st *State) {
		if st.ViewMode == domain.View3D {
			st.ViewMode = domain.View2D
		} else {
			st.ViewMode = domain.View3D
		}
	})
}

// ToggleTheme flips between light and dark.
func (s *Shell) ToggleTheme() {
	s.update(func(st *State) { st.Theme = st.Theme.Toggle() })
}

// SetTheme selects the light or dark theme. Setting the current theme still
// notifies the view.
func (s *Shell) SetTheme(theme domain.Theme) {
	s.update(func(st *State) { st.Theme = theme })
}

// SetProjects replaces the project list.
func (s *Shell) SetProjects(projects []domain.Project) {
	s.update(func(st *State) { st.Projects = projects })
}

// Load fetches the project list from the source. A newer Load cancels an
// in-flight one and the superseded result is dropped. On failure the error
// message is set and the previous list is kept. Load on a closed shell
// returns context.Canceled.
func (s *Shell) Load(ctx context.Context) error {
	if s.source == nil {
		return nil
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanDashboardLoad)
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return context.Canceled
	}
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.generation++
	gen := s.generation
	s.cancelLoad = cancel
	s.mu.Unlock()
	defer cancel()

	s.update(func(st *State) { st.IsLoading = true })

	start := time.Now()
	projects, err := s.source.ListProjects(ctx)
	metrics.ProjectLoadDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		metrics.ProjectLoads.WithLabelValues("superseded").Inc()
		return context.Canceled
	}
	s.cancelLoad = nil
	s.mu.Unlock()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error("failed to fetch projects", "error", err)
		}
		span.RecordError(err)
		metrics.ProjectLoads.WithLabelValues("error").Inc()
		s.update(func(st *State) {
			st.IsLoading = false
			st.Error = LoadErrorMessage
		})
		return err
	}

	metrics.ProjectLoads.WithLabelValues("ok").Inc()
	s.update(func(st *State) {
		st.IsLoading = false
		st.Error = ""
		st.Projects = projects
	})
	return nil
}

// Close cancels any in-flight load and stops notifications. It waits for a
// notification already in progress, so neither the view nor OnChange is
// called once Close returns.
func (s *Shell) Close() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.generation++
	s.closed = true
}

func (s *Shell) update(fn func(*State)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fn(&s.state)
	snap := s.state
	s.mu.Unlock()

	if s.view != nil {
		if err := s.view.Synchronize(snap.Inputs()); err != nil {
			s.log.Error("synchronize map view", "error", err)
		}
	}
	if s.OnChange != nil {
		s.OnChange(snap)
	}
}
