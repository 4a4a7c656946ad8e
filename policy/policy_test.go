package policy

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func attemptBetween(t *testing.T, prev, loc string) Attempt {
	t.Helper()
	return Attempt{
		Status:   http.StatusMovedPermanently,
		Location: mustParseURL(t, loc),
		Previous: mustParseURL(t, prev),
	}
}

// taint records whether a wrapped policy was consulted.
type taint struct {
	policy Policy
	used   bool
}

func (p *taint) Redirect(attempt Attempt) (Action, error) {
	p.used = true
	return p.policy.Redirect(attempt)
}

func TestActionString(t *testing.T) {
	require.Equal(t, "follow", Follow.String())
	require.Equal(t, "stop", Stop.String())
	require.Equal(t, "unknown", Action(42).String())
}

func TestRedirectFunc(t *testing.T) {
	var got Attempt
	p := RedirectFunc(func(attempt Attempt) (Action, error) {
		got = attempt
		return Stop, nil
	})

	attempt := attemptBetween(t, "https://example.com/a", "https://example.com/b")
	action, err := p.Redirect(attempt)
	require.NoError(t, err)
	require.Equal(t, Stop, action)
	require.Equal(t, attempt, got)
}

func TestDerive(t *testing.T) {
	t.Run("Clones policies implementing Clonable", func(t *testing.T) {
		template := NewLimited(3)
		derived := Derive(template)
		require.NotSame(t, Policy(template), derived)
	})

	t.Run("Returns stateless policies unchanged", func(t *testing.T) {
		p := NewStandard()
		require.Same(t, Policy(p), Derive(p))
	})
}

func TestOnRequestHelper(t *testing.T) {
	t.Run("No-op for policies without the capability", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "https://example.com/", nil)
		require.NoError(t, err)

		OnRequest(NewStandard(), req) // must not panic
		require.Empty(t, req.Header)
	})

	t.Run("Applies the hook when implemented", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "https://example.com/", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer token")

		p := NewFilterCredentials()
		p.blocked = true
		OnRequest(p, req)
		require.Empty(t, req.Header.Get("Authorization"))
	})
}

func TestCloneBodyHelper(t *testing.T) {
	t.Run("Returns nil for policies without the capability", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, "https://example.com/", strings.NewReader("payload"))
		require.NoError(t, err)

		require.Nil(t, CloneBody(NewStandard(), req))
	})

	t.Run("Returns the policy's copy when implemented", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, "https://example.com/", strings.NewReader("payload"))
		require.NoError(t, err)

		body := CloneBody(GetBody, req)
		require.NotNil(t, body)
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		require.Equal(t, "payload", string(data))
	})
}

func TestStandard(t *testing.T) {
	t.Run("Always follows", func(t *testing.T) {
		p := NewStandard()
		for i := 0; i < 100; i++ {
			action, err := p.Redirect(attemptBetween(t, "https://example.com/a", "https://evil.test/b"))
			require.NoError(t, err)
			require.Equal(t, Follow, action)
		}
	})

	t.Run("Cannot clone bodies", func(t *testing.T) {
		_, ok := Policy(NewStandard()).(BodyCloner)
		require.False(t, ok)
	})

	t.Run("Does not mutate requests", func(t *testing.T) {
		_, ok := Policy(NewStandard()).(RequestHook)
		require.False(t, ok)
	})
}

var errRejected = errors.New("rejected")
