package followredirect

import (
	"net/http"
	"net/url"
)

// isRedirectStatus reports whether statusCode is one of the redirect codes
// the engine acts on: 301 (Moved Permanently), 302 (Found), 303 (See Other),
// 307 (Temporary Redirect) and 308 (Permanent Redirect). Every other status,
// 3xx or not, is terminal and passes through unmodified.
func isRedirectStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}

// resolveLocation reads the Location header of resp and resolves it against
// the previous request's absolute URL per RFC 3986 Section 5. Relative
// paths, scheme-relative references and fragment-only references all resolve
// against prev. A missing, empty or unparsable Location yields (nil, false),
// which ends the chain without error.
func resolveLocation(resp *http.Response, prev *url.URL) (*url.URL, bool) {
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, false
	}

	ref, err := url.Parse(location)
	if err != nil {
		return nil, false
	}

	return prev.ResolveReference(ref), true
}
