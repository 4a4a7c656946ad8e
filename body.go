package followredirect

import (
	"io"
	"net/http"

	"github.com/httpmw/followredirect-go/policy"
)

type bodyState uint8

const (
	// bodyExhausted: no reusable copy is available. A redirect that needs a
	// body cannot be followed until a refresh produces one.
	bodyExhausted bodyState = iota
	// bodyOwned: a single-use copy is held and consumed by take.
	bodyOwned
	// bodyEmpty: the body is known to be empty. take synthesizes a fresh
	// empty body each time without leaving this state.
	bodyEmpty
)

// bodyRepr tracks request-body availability across a redirect chain.
type bodyRepr struct {
	state bodyState
	rc    io.ReadCloser // held copy, valid only in bodyOwned
}

// newBodyRepr derives the initial representation from the original request.
// A nil or http.NoBody body is known empty and infinitely reusable; anything
// else needs a policy-produced copy up front, since the original reader is
// consumed by the first dispatch.
func newBodyRepr(orig *http.Request, p policy.Policy) *bodyRepr {
	if orig.Body == nil || orig.Body == http.NoBody {
		return &bodyRepr{state: bodyEmpty}
	}
	if rc := policy.CloneBody(p, orig); rc != nil {
		return &bodyRepr{state: bodyOwned, rc: rc}
	}
	return &bodyRepr{state: bodyExhausted}
}

// take yields the body for the next request. Taking the owned copy consumes
// it; the representation must be refreshed before another body-carrying
// redirect can be followed. Taking from the known-empty state yields a fresh
// empty body and keeps the marker. In the exhausted state take reports
// failure and the chain must end.
func (b *bodyRepr) take() (io.ReadCloser, bool) {
	switch b.state {
	case bodyOwned:
		rc := b.rc
		b.state = bodyExhausted
		b.rc = nil
		return rc, true
	case bodyEmpty:
		return http.NoBody, true
	default:
		return nil, false
	}
}

// markEmpty switches to the known-empty state, releasing any held copy.
// Used when a status rewrite (301/302 on POST, 303) drops the body.
func (b *bodyRepr) markEmpty() {
	if b.state == bodyOwned && b.rc != nil {
		b.rc.Close()
	}
	b.state = bodyEmpty
	b.rc = nil
}

// refresh replenishes an exhausted representation with a fresh copy from the
// policy. The known-empty and owned states are left untouched: an empty body
// never needs cloning, and an unconsumed copy must not be replaced.
func (b *bodyRepr) refresh(orig *http.Request, p policy.Policy) {
	if b.state != bodyExhausted {
		return
	}
	if rc := policy.CloneBody(p, orig); rc != nil {
		b.state = bodyOwned
		b.rc = rc
	}
}

// discard releases a body obtained from take when the chain terminates
// before the body is sent.
func discardBody(rc io.ReadCloser) {
	if rc != nil && rc != http.NoBody {
		rc.Close()
	}
}
