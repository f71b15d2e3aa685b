// Package launch implements launch scenarios: start a target application,
// optionally drive it, capture evidence of its state and attach that
// evidence to the report.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"caserun/internal/domain"
	"caserun/internal/report"
)

// AttachmentName is the name given to the artifact captured after launch
const AttachmentName = "Launch Screen"

// State is the progress of a scenario
type State int

const (
	NotStarted State = iota
	Launched
	Captured
	Attached
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Launched:
		return "launched"
	case Captured:
		return "captured"
	case Attached:
		return "attached"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Artifact is evidence captured from a launched application
type Artifact struct {
	MediaType string
	Payload   []byte
}

// App is the application a scenario launches
type App interface {
	// Launch starts the application. It must return once the app is usable.
	Launch(ctx context.Context) error
	// CaptureArtifact captures the current state of the launched app.
	CaptureArtifact(ctx context.Context) (Artifact, error)
	// Terminate releases everything Launch acquired.
	Terminate() error
}

// Action is a preparatory step performed between launch and capture
type Action func(ctx context.Context, app App) error

// Option configures a Scenario
type Option func(*Scenario)

// WithActions appends preparatory actions
func WithActions(actions ...Action) Option {
	return func(s *Scenario) {
		s.actions = append(s.actions, actions...)
	}
}

// WithLifetime overrides the attachment lifetime (KeepAlways by default)
func WithLifetime(lifetime domain.Lifetime) Option {
	return func(s *Scenario) {
		s.lifetime = lifetime
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scenario) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scenario launches an App, captures an artifact and attaches it
type Scenario struct {
	name     string
	app      App
	sink     report.AttachmentSink
	actions  []Action
	lifetime domain.Lifetime
	logger   *slog.Logger

	mu      sync.Mutex
	state   State
	claimed bool
}

// New creates a Scenario. name is the test case name the attachment is filed under.
func New(name string, app App, sink report.AttachmentSink, opts ...Option) *Scenario {
	s := &Scenario{
		name:     name,
		app:      app,
		sink:     sink,
		lifetime: domain.KeepAlways,
		logger:   slog.New(slog.DiscardHandler),
		state:    NotStarted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the case name of the scenario
func (s *Scenario) Name() string {
	return s.name
}

// State returns the current state
func (s *Scenario) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scenario) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.logger.Debug("Launch scenario state", "case", s.name, "state", state)
}

// claim marks the scenario as started. Only the first caller succeeds.
func (s *Scenario) claim() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed {
		return fmt.Errorf("launch scenario %q already executed (state %s)", s.name, s.state)
	}
	s.claimed = true
	return nil
}

// Body adapts the scenario into a test case body
func (s *Scenario) Body() domain.Body {
	return s.Execute
}

// Execute launches the app, runs the preparatory actions, captures an artifact
// and hands it to the sink. Once launched, the app is terminated on every exit
// path. A launch failure is returned as a *domain.LaunchError.
func (s *Scenario) Execute(ctx context.Context) (err error) {
	if err := s.claim(); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			err = &domain.UnexpectedFault{Value: p}
		}
		if err != nil {
			s.setState(Failed)
		}
	}()

	if err := s.app.Launch(ctx); err != nil {
		var le *domain.LaunchError
		if errors.As(err, &le) {
			return err
		}
		return &domain.LaunchError{Target: s.name, Err: err}
	}
	s.setState(Launched)
	defer func() {
		if terr := s.app.Terminate(); terr != nil {
			s.logger.Warn("Failed to terminate launched app", "case", s.name, "err", terr)
		}
	}()

	for i, action := range s.actions {
		if err := action(ctx, s.app); err != nil {
			return fmt.Errorf("action %d: %w", i+1, err)
		}
	}

	artifact, err := s.app.CaptureArtifact(ctx)
	if err != nil {
		return fmt.Errorf("capture artifact: %w", err)
	}
	s.setState(Captured)

	s.sink.Attach(domain.Attachment{
		Name:      AttachmentName,
		Case:      s.name,
		MediaType: artifact.MediaType,
		Payload:   artifact.Payload,
		Lifetime:  s.lifetime,
	})
	s.setState(Attached)
	return nil
}
