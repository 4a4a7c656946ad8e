// Package followredirect provides an http.RoundTripper decorator that
// follows HTTP redirect responses according to protocol rules and a
// pluggable decision policy.
//
// net/http.Client has redirect handling of its own, but it lives above the
// transport and is all-or-nothing per client. This package moves redirect
// following into the transport chain, where it composes with other
// RoundTripper decorators (retry, instrumentation, auth) and where the
// decision logic is pluggable per concern: hop limits, origin restrictions,
// credential filtering and body replay are independent policies combined
// with the [policy] package's combinators.
//
// # Basic usage
//
// Wrap a transport and use it like any other:
//
//	client := &http.Client{
//		// Disable the client's own redirect handling; the transport
//		// does it now.
//		CheckRedirect: func(*http.Request, []*http.Request) error {
//			return http.ErrUseLastResponse
//		},
//		Transport: followredirect.New(nil, policy.NewLimited(10)),
//	}
//
// Or compose it into a decorator chain:
//
//	rt := followredirect.Decorator(policy.NewSameOrigin())(base)
//
// # Rewrite rules
//
// On 301 and 302 a POST becomes a GET with an empty body; other methods are
// preserved along with their body. On 303 every method but HEAD becomes GET
// and the body is always dropped. On 307 and 308 method and body are
// preserved, which means the body must be replayable: either known empty, or
// cloneable by the policy (see [policy.BodyCloner] and [policy.GetBody]).
// When no copy can be produced, the chain stops and the redirect response is
// returned as-is.
//
// A missing or unparsable Location header, a non-redirect status, a policy
// [policy.Stop] and an exhausted body are all normal termination: the last
// response is returned to the caller. Only the wrapped transport's error and
// a policy error abort a call.
//
// # Observability
//
// Each call is traced as one OpenTelemetry span with an event per followed
// hop, and the transport records call, hop and chain-length metrics. Both
// default to the global otel providers and can be overridden with
// [WithTracerProvider] and [WithMeterProvider].
package followredirect
