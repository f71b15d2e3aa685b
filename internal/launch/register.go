package launch

import (
	"fmt"

	"caserun/internal/domain"
	"caserun/internal/report"
)

// Registrar is the part of a registry needed to register scenarios
type Registrar interface {
	Register(name string, body domain.Body) error
}

// AppFactory builds the app for one UI configuration. config is empty when
// the scenario runs without configurations.
type AppFactory func(config string) App

// RegisterEach registers one scenario per UI configuration, named
// "name[config]". Without configurations a single scenario named name is
// registered.
func RegisterEach(reg Registrar, name string, configs []string, factory AppFactory, sink report.AttachmentSink, opts ...Option) ([]*Scenario, error) {
	if len(configs) == 0 {
		configs = []string{""}
	}

	scenarios := make([]*Scenario, 0, len(configs))
	for _, config := range configs {
		caseName := name
		if config != "" {
			caseName = fmt.Sprintf("%s[%s]", name, config)
		}
		s := New(caseName, factory(config), sink, opts...)
		if err := reg.Register(caseName, s.Body()); err != nil {
			return scenarios, fmt.Errorf("register launch scenario: %w", err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
