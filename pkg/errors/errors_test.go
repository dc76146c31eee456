package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"duplicate", NewDuplicateError("link exists"), "duplicate"},
		{"validation", NewValidationError("empty key"), "validation"},
		{"storage", NewStorageError("insert failed", errors.New("conn reset")), "storage"},
		{"wrapped upstream", fmt.Errorf("fetch: %w", NewUpstreamFetchError("feed down", nil)), "upstream"},
		{"emit", NewEmitError(errors.New("rejected")), "relay"},
		{"relay", NewRelayError("dial failed", nil), "relay"},
		{"other", context.Canceled, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorType(tt.err))
		})
	}
}

func TestPublishError(t *testing.T) {
	cause := errors.New("blocked")
	err := NewEmitError(cause)

	assert.True(t, IsEmitError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "publish failed at emit: blocked", err.Error())

	profileErr := &PublishError{Step: StepProfile, Err: cause}
	assert.False(t, IsEmitError(profileErr))
}
