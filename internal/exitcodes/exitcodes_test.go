package exitcodes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	assert.Equal(t, Success, FromError(nil))
	assert.Equal(t, TestFailure, FromError(&TestFailureError{Failed: 2}))
	assert.Equal(t, TestFailure, FromError(fmt.Errorf("run: %w", &TestFailureError{Failed: 1})))
	assert.Equal(t, RuntimeErr, FromError(errors.New("disk full")))
}
