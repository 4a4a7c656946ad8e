// Package policy defines the pluggable decision layer for redirect
// following.
//
// A [Policy] is consulted once per redirect opportunity with an [Attempt]
// describing the response status, the resolved target and the previous URL,
// and answers [Follow] or [Stop]. A policy error aborts the whole call.
//
// # Built-in policies
//
//   - [Standard]: follow everything, never fail (the permissive default).
//   - [Limited]: follow at most n hops per call, then stop.
//   - [SameOrigin]: stop at the first cross-origin target.
//   - [FilterCredentials]: follow everything but strip credential headers
//     once the chain leaves its origin.
//
// # Combinators
//
// [Select] follows if either of two policies allows it, falling back to the
// second when the first stops or fails. [And] follows only if both allow
// it. Both are binary and nest freely; [SelectAll] builds an n-ary chain.
//
// # Optional capabilities
//
// Beyond the single Redirect method, a policy may implement [RequestHook]
// to mutate every outgoing request (for example, re-applying an auth
// header), [BodyCloner] to duplicate request bodies so 307/308 redirects
// can resend them, and [Clonable] when it carries per-call state. Small
// decision-only policies can be written inline with [RedirectFunc]:
//
//	crossOnce := policy.RedirectFunc(func(a policy.Attempt) (policy.Action, error) {
//		if a.Location.Host != a.Previous.Host {
//			return policy.Stop, nil
//		}
//		return policy.Follow, nil
//	})
package policy
