package policy

// SameOrigin follows a redirect only while the target shares scheme and
// authority with the URL that produced it. The first cross-origin attempt
// stops the chain, returning the redirect response to the caller.
//
// Because every followed hop is same-origin, comparing against the previous
// URL is equivalent to comparing against the original request's origin.
type SameOrigin struct{}

// NewSameOrigin returns a policy restricting redirects to the original
// origin.
func NewSameOrigin() *SameOrigin {
	return &SameOrigin{}
}

// Redirect implements Policy.
func (*SameOrigin) Redirect(attempt Attempt) (Action, error) {
	if sameOrigin(attempt.Location, attempt.Previous) {
		return Follow, nil
	}
	return Stop, nil
}
