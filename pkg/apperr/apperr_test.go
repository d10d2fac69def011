package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := New(NotFound, "application %s not found", "abc")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, NotFound, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := New(Conflict, "status moved")
	wrapped := fmt.Errorf("updating application: %w", inner)

	assert.True(t, IsKind(wrapped, Conflict))
	assert.False(t, IsKind(wrapped, NotFound))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Storage, cause, "saving application")

	assert.True(t, IsKind(err, Storage))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "saving application")
	assert.Contains(t, err.Error(), "connection refused")
}
