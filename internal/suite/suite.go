// Package suite holds the cases caserun registers on its own: a smoke suite
// checking the harness end to end, and launch scenarios built from config.
package suite

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"caserun/internal/config"
	"caserun/internal/domain"
	"caserun/internal/execution"
	"caserun/internal/expect"
	"caserun/internal/launch"
	"caserun/internal/report"
)

// Registrar is the part of a registry needed to register cases
type Registrar interface {
	Register(name string, body domain.Body) error
}

// Smoke registers the built-in smoke cases
func Smoke(reg Registrar) error {
	cases := []struct {
		name string
		body domain.Body
	}{
		{"arithmetic", arithmetic},
		{"strings", stringsCase},
		{"collections", collections},
		{"asyncSuspension", asyncSuspension},
	}
	for _, c := range cases {
		if err := reg.Register(c.name, c.body); err != nil {
			return err
		}
	}
	return nil
}

func arithmetic(ctx context.Context) error {
	return expect.Check(func(e *expect.Expect) {
		e.Equal(4, 2+2)
	})
}

func stringsCase(ctx context.Context) error {
	greeting := "Hello, world!"
	return expect.Check(func(e *expect.Expect) {
		e.True(strings.Contains(greeting, "world"), "greeting should mention the world")
		e.Len(greeting, 13)
	})
}

func collections(ctx context.Context) error {
	numbers := []int{1, 2, 3, 4, 5}
	return expect.Check(func(e *expect.Expect) {
		if e.Len(numbers, 5) {
			e.Equal(1, numbers[0])
			e.Equal(5, numbers[len(numbers)-1])
		}
	})
}

func asyncSuspension(ctx context.Context) error {
	if err := execution.Sleep(ctx, time.Millisecond); err != nil {
		return err
	}
	value, err := settle(ctx)
	if err != nil {
		return err
	}
	return expect.Check(func(e *expect.Expect) {
		e.Equal("completed", value)
	})
}

// settle resolves a value on another goroutine and waits for it
func settle(ctx context.Context) (string, error) {
	ch := make(chan string, 1)
	go func() { ch <- "completed" }()
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Launch registers the launch scenarios described by cfg: one per UI
// configuration, or a single one when none are configured. It registers
// nothing when no launch command is set.
func Launch(reg Registrar, cfg *config.Config, sink report.AttachmentSink, logger *slog.Logger) ([]*launch.Scenario, error) {
	if !cfg.LaunchEnabled() {
		return nil, nil
	}

	var ready *regexp.Regexp
	if cfg.LaunchReadyPattern != "" {
		var err error
		ready, err = regexp.Compile(cfg.LaunchReadyPattern)
		if err != nil {
			return nil, fmt.Errorf("compile launch ready pattern: %w", err)
		}
	}

	factory := func(uiConfig string) launch.App {
		return launch.NewProcessApp(launch.ProcessConfig{
			Command:       cfg.LaunchCommand,
			Args:          cfg.LaunchArgs,
			Dir:           cfg.ProjectPath,
			Configuration: uiConfig,
			ReadyPattern:  ready,
			ReadyTimeout:  cfg.LaunchReadyTimeout,
		})
	}
	return launch.RegisterEach(reg, cfg.LaunchCaseName, cfg.UIConfigurations, factory, sink, launch.WithLogger(logger))
}
