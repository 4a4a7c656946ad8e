package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSameOrigin(t *testing.T) {
	p := NewSameOrigin()

	t.Run("Follows within the same origin", func(t *testing.T) {
		action, err := p.Redirect(attemptBetween(t, "https://example.com/old", "https://example.com/new"))
		require.NoError(t, err)
		require.Equal(t, Follow, action)
	})

	t.Run("Stops on a different host", func(t *testing.T) {
		action, err := p.Redirect(attemptBetween(t, "https://example.com/old", "https://other.test/new"))
		require.NoError(t, err)
		require.Equal(t, Stop, action)
	})

	t.Run("Stops on a scheme downgrade", func(t *testing.T) {
		action, err := p.Redirect(attemptBetween(t, "https://example.com/old", "http://example.com/new"))
		require.NoError(t, err)
		require.Equal(t, Stop, action)
	})

	t.Run("Stops on a different port", func(t *testing.T) {
		action, err := p.Redirect(attemptBetween(t, "https://example.com/old", "https://example.com:8443/new"))
		require.NoError(t, err)
		require.Equal(t, Stop, action)
	})
}
