package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_TokenLifecycle(t *testing.T) {
	s := New("initial-token", nil)

	assert.Equal(t, "initial-token", s.Token())
	assert.True(t, s.Authenticated())

	s.SetToken("fresh-token")
	assert.Equal(t, "fresh-token", s.Token())

	s.Invalidate()
	assert.Empty(t, s.Token())
	assert.False(t, s.Authenticated())
}

func TestSession_InvalidateFiresHookOnce(t *testing.T) {
	calls := 0
	s := New("token", func() { calls++ })

	// Overlapping 401s invalidate repeatedly; the hook fires only for
	// the invalidation that actually dropped a token.
	s.Invalidate()
	s.Invalidate()
	s.Invalidate()

	assert.Equal(t, 1, calls)
}

func TestSession_AnonymousInvalidateIsSilent(t *testing.T) {
	calls := 0
	s := New("", func() { calls++ })

	s.Invalidate()

	assert.Zero(t, calls)
}
