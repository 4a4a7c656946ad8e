package policy

import (
	"io"
	"net/http"
	"net/url"
)

// Action is the outcome of a redirect decision.
type Action uint8

const (
	// Follow indicates that the redirection should be followed.
	Follow Action = iota
	// Stop indicates that the redirection should not be followed and the
	// redirect response itself should be returned to the caller.
	Stop
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case Follow:
		return "follow"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Attempt describes a single redirect opportunity: the status code of the
// redirect response, the resolved absolute target, and the absolute URL of
// the request that drew the response.
//
// An Attempt is valid only for the duration of one Redirect call. Policies
// must not retain the Location or Previous URLs across calls.
type Attempt struct {
	// Status is the status code of the redirect response (301, 302, 303,
	// 307 or 308).
	Status int

	// Location is the redirect target, already resolved against Previous
	// per RFC 3986 reference resolution. Always absolute.
	Location *url.URL

	// Previous is the URL of the request whose response triggered this
	// attempt. Always absolute.
	Previous *url.URL
}

// Policy decides whether redirect responses are followed.
//
// A Policy is consulted once per redirect opportunity, after the engine has
// determined that a body is available for the next request (or that none is
// needed). Returning a non-nil error aborts the whole call; the current
// response is discarded and the error is surfaced to the caller.
//
// Policies may additionally implement [RequestHook], [BodyCloner] and
// [Clonable] to hook into request construction, body duplication and
// per-call state isolation.
type Policy interface {
	Redirect(attempt Attempt) (Action, error)
}

// RequestHook is implemented by policies that mutate outgoing requests.
//
// OnRequest is invoked before every dispatch, including the very first one.
// It must be safe to call once per attempt (a hook that sets a header with
// http.Header.Set meets this; one that appends with Add may not). The hook
// never observes headers from intervening responses: each outgoing request
// carries a fresh clone of the original header snapshot.
type RequestHook interface {
	OnRequest(req *http.Request)
}

// BodyCloner is implemented by policies that can produce a reusable copy of
// a request body.
//
// CloneBody receives the engine's copy of the original request and returns a
// fresh reader for its body, or nil if no copy can be produced. It is called
// synchronously and may be called multiple times over a redirect chain, once
// per replay. When it returns nil for a non-empty body, redirects that must
// resend that body (307 and 308) are not followed.
type BodyCloner interface {
	CloneBody(req *http.Request) io.ReadCloser
}

// Clonable is implemented by stateful policies that require per-call state
// isolation, such as [Limited] with its remaining-hop counter.
//
// The engine derives a fresh policy instance via Clone at the start of every
// top-level call, so state never leaks between independent or concurrent
// calls. Stateless policies need not implement Clonable.
type Clonable interface {
	Clone() Policy
}

// Derive returns the per-call instance of p: a clone if p implements
// [Clonable], p itself otherwise.
func Derive(p Policy) Policy {
	if c, ok := p.(Clonable); ok {
		return c.Clone()
	}
	return p
}

// OnRequest applies p's request hook to req, if p implements [RequestHook].
func OnRequest(p Policy, req *http.Request) {
	if h, ok := p.(RequestHook); ok {
		h.OnRequest(req)
	}
}

// CloneBody asks p for a reusable copy of req's body. It returns nil if p
// does not implement [BodyCloner] or cannot clone the body.
func CloneBody(p Policy, req *http.Request) io.ReadCloser {
	if c, ok := p.(BodyCloner); ok {
		return c.CloneBody(req)
	}
	return nil
}

// RedirectFunc adapts a plain function to a [Policy].
type RedirectFunc func(attempt Attempt) (Action, error)

// Redirect implements Policy.
func (f RedirectFunc) Redirect(attempt Attempt) (Action, error) {
	return f(attempt)
}

// sameOrigin reports whether two absolute URLs share scheme and authority.
func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}
