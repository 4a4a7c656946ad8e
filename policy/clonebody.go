package policy

import (
	"io"
	"net/http"
)

// CloneBodyFunc adapts a body-cloning function to a [Policy] whose Redirect
// always returns [Follow]. It is meant to be composed with a deciding policy
// via [NewAnd]:
//
//	p := policy.NewAnd(policy.NewLimited(10), policy.GetBody)
type CloneBodyFunc func(req *http.Request) io.ReadCloser

// Redirect implements Policy.
func (CloneBodyFunc) Redirect(Attempt) (Action, error) {
	return Follow, nil
}

// CloneBody implements BodyCloner.
func (f CloneBodyFunc) CloneBody(req *http.Request) io.ReadCloser {
	return f(req)
}

// GetBody clones request bodies through http.Request.GetBody, the standard
// library's replay mechanism. net/http populates GetBody for bodies built
// from *bytes.Buffer, *bytes.Reader and *strings.Reader, so composing
// GetBody into a policy lets 307/308 redirects resend such bodies without
// any buffering of its own.
var GetBody = CloneBodyFunc(func(req *http.Request) io.ReadCloser {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil
	}
	return body
})
