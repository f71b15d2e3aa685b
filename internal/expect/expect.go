// Package expect provides non-fatal expectations for case bodies.
//
// An Expect implements testify's assert.TestingT, so every assertion from
// github.com/stretchr/testify/assert can be used inside a case body. Failed
// expectations are recorded and the body keeps running; Err turns the record
// into a *domain.AssertionFailure at the end of the body:
//
//	func(ctx context.Context) error {
//		e := expect.New()
//		e.Equal(4, 2+2)
//		e.Contains("Hello, world!", "world")
//		return e.Err()
//	}
package expect

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"caserun/internal/domain"

	"github.com/stretchr/testify/assert"
)

// Expect collects failed assertions
type Expect struct {
	mu       sync.Mutex
	messages []string
}

// New creates an empty Expect
func New() *Expect {
	return &Expect{}
}

// Check runs fn with a fresh Expect and returns its error
func Check(fn func(e *Expect)) error {
	e := New()
	fn(e)
	return e.Err()
}

// Errorf records a failure. It is called by testify's assert package.
func (e *Expect) Errorf(format string, args ...any) {
	msg := condense(fmt.Sprintf(format, args...))
	e.mu.Lock()
	e.messages = append(e.messages, msg)
	e.mu.Unlock()
}

// Helper satisfies testify's helper detection
func (e *Expect) Helper() {}

// Assert exposes the full testify assertion set bound to this Expect
func (e *Expect) Assert() *assert.Assertions {
	return assert.New(e)
}

func (e *Expect) True(value bool, msgAndArgs ...any) bool {
	return assert.True(e, value, msgAndArgs...)
}

func (e *Expect) False(value bool, msgAndArgs ...any) bool {
	return assert.False(e, value, msgAndArgs...)
}

func (e *Expect) Equal(expected, actual any, msgAndArgs ...any) bool {
	return assert.Equal(e, expected, actual, msgAndArgs...)
}

func (e *Expect) NotEqual(expected, actual any, msgAndArgs ...any) bool {
	return assert.NotEqual(e, expected, actual, msgAndArgs...)
}

func (e *Expect) Contains(s, contains any, msgAndArgs ...any) bool {
	return assert.Contains(e, s, contains, msgAndArgs...)
}

func (e *Expect) Len(object any, length int, msgAndArgs ...any) bool {
	return assert.Len(e, object, length, msgAndArgs...)
}

func (e *Expect) NoError(err error, msgAndArgs ...any) bool {
	return assert.NoError(e, err, msgAndArgs...)
}

func (e *Expect) Nil(object any, msgAndArgs ...any) bool {
	return assert.Nil(e, object, msgAndArgs...)
}

func (e *Expect) NotNil(object any, msgAndArgs ...any) bool {
	return assert.NotNil(e, object, msgAndArgs...)
}

// Failed reports whether any expectation failed
func (e *Expect) Failed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.messages) > 0
}

// Messages returns the recorded failure messages
func (e *Expect) Messages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.messages))
	copy(out, e.messages)
	return out
}

// Err returns nil when every expectation held, otherwise an *domain.AssertionFailure
func (e *Expect) Err() error {
	msgs := e.Messages()
	if len(msgs) == 0 {
		return nil
	}
	return &domain.AssertionFailure{Messages: msgs}
}

// labelLine matches the "\tLabel:   \tvalue" lines testify prints
var labelLine = regexp.MustCompile(`^\t([A-Z][A-Za-z ]*):\s*\t?(.*)$`)

// condense turns testify's multi-line labelled output into a one-line reason.
// Only the "Error" and "Messages" sections are kept; the trace is dropped.
func condense(out string) string {
	sections := make(map[string][]string)
	var current string
	for _, line := range strings.Split(out, "\n") {
		if m := labelLine.FindStringSubmatch(line); m != nil {
			current = strings.TrimSpace(m[1])
			line = m[2]
		}
		if current == "" {
			continue
		}
		if s := strings.Join(strings.Fields(line), " "); s != "" {
			sections[current] = append(sections[current], s)
		}
	}

	msg := strings.Join(sections["Error"], " ")
	if msg == "" {
		return strings.Join(strings.Fields(out), " ")
	}
	if extra := strings.Join(sections["Messages"], " "); extra != "" {
		msg += " (" + extra + ")"
	}
	return msg
}
