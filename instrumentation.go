package followredirect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// scopeName identifies this package's tracer and meter scope.
const scopeName = "github.com/httpmw/followredirect-go"

// instrumentation holds OpenTelemetry state shared by all calls through one
// Transport. Instruments are created once at construction and reused.
type instrumentation struct {
	tracer trace.Tracer

	// calls counts top-level calls through the transport.
	calls metric.Int64Counter
	// redirects counts followed redirect hops.
	redirects metric.Int64Counter
	// chainLength records redirects followed per top-level call.
	chainLength metric.Int64Histogram
}

func newInstrumentation(tp trace.TracerProvider, mp metric.MeterProvider) *instrumentation {
	meter := mp.Meter(scopeName)

	calls, err := meter.Int64Counter(
		"http.client.redirect.calls",
		metric.WithDescription("Number of calls through the redirect-following transport"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		otel.Handle(err)
	}

	redirects, err := meter.Int64Counter(
		"http.client.redirect.follows",
		metric.WithDescription("Number of redirect hops followed"),
		metric.WithUnit("{redirect}"),
	)
	if err != nil {
		otel.Handle(err)
	}

	chainLength, err := meter.Int64Histogram(
		"http.client.redirect.chain_length",
		metric.WithDescription("Redirects followed per call"),
		metric.WithUnit("{redirect}"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &instrumentation{
		tracer:      tp.Tracer(scopeName),
		calls:       calls,
		redirects:   redirects,
		chainLength: chainLength,
	}
}

// start opens the per-call span covering the whole redirect chain.
func (i *instrumentation) start(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, "http.follow_redirects",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		),
	)
}

// recordHop marks one followed redirect on the span and hop counter.
//
// Metrics use context.Background() so they survive cancellation of the
// request context.
func (i *instrumentation) recordHop(span trace.Span, status int, location *url.URL) {
	span.AddEvent("redirect", trace.WithAttributes(
		attribute.Int("http.status_code", status),
		attribute.String("http.redirect.location", location.String()),
	))
	i.redirects.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Int("http.status_code", status)))
}

// end closes the per-call span and records the call-level metrics.
func (i *instrumentation) end(span trace.Span, resp *http.Response, err error, hops int) {
	defer span.End()

	metricsCtx := context.Background()
	i.chainLength.Record(metricsCtx, int64(hops))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.calls.Add(metricsCtx, 1, metric.WithAttributes(attribute.Bool("error", true)))
		return
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.Int("http.redirect.count", hops),
	)
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
	i.calls.Add(metricsCtx, 1, metric.WithAttributes(attribute.Bool("error", false)))
}
