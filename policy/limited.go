package policy

// DefaultRedirectLimit is the hop budget used by [NewLimitedDefault].
const DefaultRedirectLimit = 20

// Limited follows at most a fixed number of redirects per call.
//
// Each Redirect call consumes one hop from the remaining budget and returns
// [Follow]; once the budget is exhausted every further decision is [Stop]
// (not an error), so the caller receives the last redirect response
// unmodified. The engine clones the policy at the start of every top-level
// call, so the budget resets to its configured value for each call.
type Limited struct {
	remaining uint
}

// NewLimited returns a policy that follows at most n redirects per call.
func NewLimited(n uint) *Limited {
	return &Limited{remaining: n}
}

// NewLimitedDefault returns a Limited policy with a budget of
// [DefaultRedirectLimit] hops.
func NewLimitedDefault() *Limited {
	return NewLimited(DefaultRedirectLimit)
}

// Redirect implements Policy.
func (l *Limited) Redirect(Attempt) (Action, error) {
	if l.remaining > 0 {
		l.remaining--
		return Follow, nil
	}
	return Stop, nil
}

// Clone implements Clonable. The clone starts with the budget the template
// holds; since the engine only ever consults clones, the template's budget
// stays at its configured value.
func (l *Limited) Clone() Policy {
	return &Limited{remaining: l.remaining}
}
