package policy

// Standard is the permissive default policy: it follows every redirect, does
// not mutate outgoing requests and cannot clone request bodies.
//
// Because Standard cannot clone bodies, only redirects whose rewrite rules
// reduce the body to empty (301/302 on POST, 303) are followed when the
// original request carried a body; a 307 or 308 on a non-empty body stops
// the chain and returns the redirect response itself.
//
// Standard performs no loop detection. A server that redirects a URL back to
// itself is followed indefinitely; compose with [Limited] (or a custom
// policy) to bound the chain.
type Standard struct{}

// NewStandard returns the permissive default policy.
func NewStandard() *Standard {
	return &Standard{}
}

// Redirect implements Policy. It always returns [Follow] and never fails.
func (*Standard) Redirect(Attempt) (Action, error) {
	return Follow, nil
}
