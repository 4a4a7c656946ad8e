package policy

import "net/http"

// credentialHeaders are removed from outgoing requests once a redirect chain
// leaves its original origin.
var credentialHeaders = []string{
	"Authorization",
	"Cookie",
	"Proxy-Authorization",
}

// FilterCredentials follows every redirect but strips credential-carrying
// headers (Authorization, Cookie, Proxy-Authorization) from outgoing
// requests as soon as the chain crosses to a different origin. Once crossed,
// the headers stay filtered for the remainder of the call even if a later
// hop returns to the original origin.
//
// FilterCredentials is stateful and implements [Clonable], so the
// cross-origin marker is reset for every top-level call.
type FilterCredentials struct {
	blocked bool
}

// NewFilterCredentials returns a policy that removes credential headers from
// cross-origin redirect requests.
func NewFilterCredentials() *FilterCredentials {
	return &FilterCredentials{}
}

// Redirect implements Policy. It always follows, recording whether the
// chain has left its origin.
func (f *FilterCredentials) Redirect(attempt Attempt) (Action, error) {
	if !sameOrigin(attempt.Location, attempt.Previous) {
		f.blocked = true
	}
	return Follow, nil
}

// OnRequest implements RequestHook.
func (f *FilterCredentials) OnRequest(req *http.Request) {
	if !f.blocked {
		return
	}
	for _, name := range credentialHeaders {
		req.Header.Del(name)
	}
}

// Clone implements Clonable.
func (f *FilterCredentials) Clone() Policy {
	return &FilterCredentials{}
}
