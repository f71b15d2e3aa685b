package domain

import "context"

// Body is the logic of a single test case. It may block on timers, channels or
// I/O; it fails by returning a non-nil error or by panicking.
type Body func(ctx context.Context) error

// TestCase represents a single registered test case
type TestCase struct {
	Name string // Unique within a registry
	Body Body
}
