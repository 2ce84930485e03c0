package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	assert.True(t, IsConflict(NewUsernameTaken("alice", nil)))
	assert.True(t, IsNotFound(NewUserNotFound("abc")))
	assert.True(t, IsInvalidArgument(NewInvalidArgument("content", "must not be empty")))
	assert.True(t, IsStore(NewStoreQueryFailed("get feed", fmt.Errorf("connection reset"))))

	assert.False(t, IsConflict(NewUserNotFound("abc")))
	assert.False(t, IsNotFound(fmt.Errorf("plain error")))
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("constraint violated")
	err := NewUsernameTaken("alice", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "alice")
	assert.Contains(t, err.Error(), "conflict")
}

func TestWrappedKindPropagates(t *testing.T) {
	inner := NewUserNotFound("abc")
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
}
