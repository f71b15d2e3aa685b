// Package exitcodes defines the exit codes used by caserun.
//
// * Success (0): every case passed
// * TestFailure (1): one or more cases failed
// * RuntimeErr (2): configuration, storage or other operational errors
package exitcodes

import (
	"errors"
	"fmt"
)

const (
	Success     = 0 // All cases pass
	TestFailure = 1 // Case failures
	RuntimeErr  = 2 // Runtime errors
)

// TestFailureError reports that a run finished with failed cases
type TestFailureError struct {
	Failed int
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("%d test case(s) failed", e.Failed)
}

// FromError maps an error returned by a command to an exit code
func FromError(err error) int {
	if err == nil {
		return Success
	}
	var tf *TestFailureError
	if errors.As(err, &tf) {
		return TestFailure
	}
	return RuntimeErr
}
