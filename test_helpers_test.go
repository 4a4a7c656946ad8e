package followredirect

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// sentRequest is the recorder's view of one dispatched request.
type sentRequest struct {
	method string
	url    string
	header http.Header
	body   string
}

// recordingTransport records every dispatched request (including its fully
// read body) and answers from the wrapped function.
type recordingTransport struct {
	mu   sync.Mutex
	sent []sentRequest
	next roundTripperFunc
}

func newRecordingTransport(next roundTripperFunc) *recordingTransport {
	return &recordingTransport{next: next}
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		body = string(data)
	}

	rt.mu.Lock()
	rt.sent = append(rt.sent, sentRequest{
		method: req.Method,
		url:    req.URL.String(),
		header: req.Header.Clone(),
		body:   body,
	})
	rt.mu.Unlock()

	return rt.next(req)
}

func (rt *recordingTransport) requests() []sentRequest {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]sentRequest(nil), rt.sent...)
}

// response builds an *http.Response for fake transports.
func response(status int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func redirectResponse(status int, location string) *http.Response {
	h := http.Header{}
	h.Set("Location", location)
	return response(status, h, "")
}

// countdown serves the redirect-chain scenario: GET /N answers 301 with
// Location /N-1 and body N; GET /0 answers 200 with body 0.
func countdown(req *http.Request) (*http.Response, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(req.URL.Path, "/"))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		resp := redirectResponse(http.StatusMovedPermanently, fmt.Sprintf("/%d", n-1))
		resp.Body = io.NopCloser(strings.NewReader(strconv.Itoa(n)))
		resp.ContentLength = int64(len(strconv.Itoa(n)))
		return resp, nil
	}
	return response(http.StatusOK, nil, "0"), nil
}

func mustNewRequest(t *testing.T, method, url string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// closeTracker wraps a response body and records whether it was closed.
type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
