package policy

import (
	"io"
	"net/http"
)

// Select combines two policies, following a redirect if either allows it.
//
// Redirect evaluates A first. If A returns [Follow], B is not consulted for
// that decision. If A returns [Stop] or an error, B is evaluated and its
// result, Action or error, is what the engine observes. A's error is
// discarded in that case, not surfaced: the fallback is part of Select's
// contract, so a failing policy can be overridden by a more permissive one.
// Use [And] when an error must always abort.
//
// OnRequest applies A's hook and then B's, unconditionally. CloneBody
// returns A's copy if A produces one, otherwise B's.
//
// Select is binary; nest instances (or use [SelectAll]) to chain more than
// two policies.
type Select struct {
	a, b Policy
}

// NewSelect combines a and b as described on [Select].
func NewSelect(a, b Policy) *Select {
	return &Select{a: a, b: b}
}

// SelectAll nests policies into a chain of [Select] combinators evaluated
// left to right. With no arguments it returns [NewStandard]; with one it
// returns that policy unchanged.
func SelectAll(policies ...Policy) Policy {
	switch len(policies) {
	case 0:
		return NewStandard()
	case 1:
		return policies[0]
	default:
		return NewSelect(policies[0], SelectAll(policies[1:]...))
	}
}

// Redirect implements Policy.
func (s *Select) Redirect(attempt Attempt) (Action, error) {
	if action, err := s.a.Redirect(attempt); err == nil && action == Follow {
		return Follow, nil
	}
	return s.b.Redirect(attempt)
}

// OnRequest implements RequestHook.
func (s *Select) OnRequest(req *http.Request) {
	OnRequest(s.a, req)
	OnRequest(s.b, req)
}

// CloneBody implements BodyCloner.
func (s *Select) CloneBody(req *http.Request) io.ReadCloser {
	if body := CloneBody(s.a, req); body != nil {
		return body
	}
	return CloneBody(s.b, req)
}

// Clone implements Clonable, deriving per-call instances of both children.
func (s *Select) Clone() Policy {
	return &Select{a: Derive(s.a), b: Derive(s.b)}
}

// And combines two policies, following a redirect only if both allow it.
//
// Redirect evaluates A first; if A returns [Stop] or an error, B is not
// consulted. Unlike [Select], errors are propagated from whichever policy
// produced them. OnRequest applies A's hook and then B's; CloneBody returns
// A's copy if present, otherwise B's.
type And struct {
	a, b Policy
}

// NewAnd combines a and b as described on [And].
func NewAnd(a, b Policy) *And {
	return &And{a: a, b: b}
}

// Redirect implements Policy.
func (n *And) Redirect(attempt Attempt) (Action, error) {
	action, err := n.a.Redirect(attempt)
	if err != nil || action == Stop {
		return action, err
	}
	return n.b.Redirect(attempt)
}

// OnRequest implements RequestHook.
func (n *And) OnRequest(req *http.Request) {
	OnRequest(n.a, req)
	OnRequest(n.b, req)
}

// CloneBody implements BodyCloner.
func (n *And) CloneBody(req *http.Request) io.ReadCloser {
	if body := CloneBody(n.a, req); body != nil {
		return body
	}
	return CloneBody(n.b, req)
}

// Clone implements Clonable.
func (n *And) Clone() Policy {
	return &And{a: Derive(n.a), b: Derive(n.b)}
}
