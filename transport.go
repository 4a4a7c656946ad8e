package followredirect

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/httpmw/followredirect-go/policy"
)

// DefaultDrainLimit caps how much of an intermediate response body is read
// before it is closed and the next request is issued. Draining keeps the
// underlying connection reusable; the cap bounds the cost of oversized
// redirect bodies.
const DefaultDrainLimit = 1 << 20 // 1MB

// Transport is an http.RoundTripper decorator that follows HTTP redirect
// responses on behalf of the wrapped transport, replaying requests according
// to protocol rules and a pluggable [policy.Policy].
//
// Per response the engine classifies the status code (301, 302, 303, 307,
// 308; anything else is terminal), rewrites method and body per the status
// class, resolves the Location header against the previous request's URL,
// consults the policy, and either returns the response or reissues a new
// request through the wrapped transport.
//
// Transport is safe for concurrent use. Configuration is immutable after
// creation and each call derives its own policy instance and body snapshot,
// so concurrent calls share no mutable state. Cancellation follows the
// request context. Connection management, caching and loop detection are
// not the engine's concern; the last of these is a policy's, if wanted.
type Transport struct {
	base       http.RoundTripper
	policy     policy.Policy
	drainLimit int64
	inst       *instrumentation
}

// Option configures a Transport.
type Option func(*config)

type config struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	drainLimit     int64
}

// WithTracerProvider sets the trace.TracerProvider used for the per-call
// span. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the metric.MeterProvider used for call and hop
// metrics. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

// WithDrainLimit caps how many bytes of each intermediate response body are
// drained before following a redirect. Values <= 0 are ignored and the
// default ([DefaultDrainLimit]) is kept.
func WithDrainLimit(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.drainLimit = n
		}
	}
}

// New wraps base with redirect following governed by p.
//
// A nil base falls back to http.DefaultTransport; a nil policy falls back to
// [policy.NewStandard]. The policy acts as a template: each call derives its
// own instance via [policy.Derive].
func New(base http.RoundTripper, p policy.Policy, opts ...Option) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if p == nil {
		p = policy.NewStandard()
	}

	cfg := config{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		drainLimit:     DefaultDrainLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Transport{
		base:       base,
		policy:     p,
		drainLimit: cfg.drainLimit,
		inst:       newInstrumentation(cfg.tracerProvider, cfg.meterProvider),
	}
}

// Standard wraps base with the permissive [policy.Standard] policy.
func Standard(base http.RoundTripper, opts ...Option) *Transport {
	return New(base, policy.NewStandard(), opts...)
}

// Decorator returns the composable form of the middleware, for insertion
// into a transport decorator chain:
//
//	rt := followredirect.Decorator(policy.NewLimited(10))(base)
func Decorator(p policy.Policy, opts ...Option) func(http.RoundTripper) http.RoundTripper {
	return func(base http.RoundTripper) http.RoundTripper {
		return New(base, p, opts...)
	}
}

// RoundTrip implements http.RoundTripper. It drives zero or more redirect
// hops to a terminal outcome: the first non-redirect (or policy-stopped, or
// unresolvable, or body-starved) response, the wrapped transport's error, or
// the policy's error. The caller's request is never mutated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	p := policy.Derive(t.policy)

	// The engine works on its own clone; the RoundTripper contract forbids
	// touching the caller's request.
	orig := req.Clone(ctx)
	if orig.Method == "" {
		orig.Method = http.MethodGet
	}

	// The replay copy must be obtained before the first dispatch consumes
	// the original body.
	c := &call{
		transport: t,
		policy:    p,
		orig:      orig,
		body:      newBodyRepr(orig, p),
	}

	policy.OnRequest(p, orig)

	// Snapshot after the first hook application so that headers set by the
	// hook become part of the template every reissued request starts from.
	c.method = orig.Method
	c.prev = orig.URL
	c.proto, c.protoMajor, c.protoMinor = orig.Proto, orig.ProtoMajor, orig.ProtoMinor
	c.headers = orig.Header.Clone()

	return c.run(ctx)
}

// call is the state of one top-level call: the snapshot of the original
// request, the body representation, the per-call policy instance, and the
// URL of the attempt currently in flight. Exactly one attempt is in flight
// at a time; the state is discarded when the call produces a terminal
// response or an error.
type call struct {
	transport *Transport
	policy    policy.Policy
	orig      *http.Request

	method     string
	prev       *url.URL
	proto      string
	protoMajor int
	protoMinor int
	headers    http.Header
	body       *bodyRepr

	ctx  context.Context
	hops int
}

func (c *call) run(ctx context.Context) (*http.Response, error) {
	ctx, span := c.transport.inst.start(ctx, c.orig)
	c.ctx = ctx

	resp, err := c.transport.base.RoundTrip(c.orig.WithContext(ctx))
	for err == nil {
		var next *http.Request
		next, err = c.next(resp)
		if err != nil {
			// Policy failure aborts the call and discards the response.
			c.transport.drain(resp)
			resp = nil
			break
		}
		if next == nil {
			break
		}

		c.transport.inst.recordHop(span, resp.StatusCode, next.URL)
		c.hops++
		c.transport.drain(resp)

		if err = ctx.Err(); err != nil {
			resp = nil
			break
		}
		resp, err = c.transport.base.RoundTrip(next)
	}

	c.transport.inst.end(span, resp, err, c.hops)
	return resp, err
}

// next processes one redirect opportunity. It returns the follow-up request,
// or nil when resp is terminal and must be handed to the caller unmodified.
// A non-nil error is a policy failure and aborts the call.
func (c *call) next(resp *http.Response) (*http.Request, error) {
	if !isRedirectStatus(resp.StatusCode) {
		return nil, nil
	}

	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound:
		// A user agent may change POST to GET (RFC 7231, sections 6.4.2
		// and 6.4.3). Other methods keep their method and body.
		if c.method == http.MethodPost {
			c.method = http.MethodGet
			c.body.markEmpty()
		}
	case http.StatusSeeOther:
		// See Other answers with GET or HEAD and never resends the body
		// (RFC 7231, section 6.4.4).
		if c.method != http.MethodHead {
			c.method = http.MethodGet
		}
		c.body.markEmpty()
	case http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		// Method and body preserved as-is.
	}

	body, ok := c.body.take()
	if !ok {
		// 307/308 with no reusable copy left: the chain ends here.
		return nil, nil
	}

	location, ok := resolveLocation(resp, c.prev)
	if !ok {
		discardBody(body)
		return nil, nil
	}

	attempt := policy.Attempt{
		Status:   resp.StatusCode,
		Location: location,
		Previous: c.prev,
	}
	action, err := c.policy.Redirect(attempt)
	if err != nil {
		discardBody(body)
		return nil, err
	}
	if action == policy.Stop {
		discardBody(body)
		return nil, nil
	}

	// Replenish the replay copy for the body just taken. A known-empty body
	// never leaves its state and needs no clone.
	c.body.refresh(c.orig, c.policy)

	req := &http.Request{
		Method:     c.method,
		URL:        location,
		Proto:      c.proto,
		ProtoMajor: c.protoMajor,
		ProtoMinor: c.protoMinor,
		// Always a fresh clone of the original snapshot, never headers
		// from intervening responses.
		Header: c.headers.Clone(),
		Body:   body,
	}
	if body == http.NoBody {
		req.ContentLength = 0
	} else {
		req.ContentLength = c.orig.ContentLength
	}
	req = req.WithContext(c.ctx)

	policy.OnRequest(c.policy, req)

	c.prev = location
	return req, nil
}

// drain discards and closes an intermediate response body so the underlying
// connection can be reused.
func (t *Transport) drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, resp.Body, t.drainLimit)
	_ = resp.Body.Close()
}
