package invoke

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, Args) (any, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("b", noop))
	require.NoError(t, r.Register("a", noop))

	assert.Error(t, r.Register("a", noop), "duplicate id")
	assert.Error(t, r.Register("", noop))
	assert.Error(t, r.Register("c", nil))

	_, ok := r.Lookup("a")
	assert.True(t, ok)
	_, ok = r.Lookup("z")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, r.IDs())
	assert.Panics(t, func() { r.MustRegister("a", noop) })
}

func TestErrorClassification(t *testing.T) {
	err := InvalidArgumentf("N must be >= %d", 2)
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, "N must be >= 2", err.Error())

	wrapped := &PanicError{Value: InvalidArgumentf("bad")}
	assert.True(t, IsInvalidArgument(wrapped))
	assert.Equal(t, "bad", wrapped.Error())

	p := &PanicError{Value: "boom"}
	assert.False(t, IsInvalidArgument(p))
	assert.Equal(t, "boom", p.Error())
}
