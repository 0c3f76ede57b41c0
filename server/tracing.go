package server

import (
	"context"

	"github.com/indigo-web/reqhead/environ"
	"github.com/indigo-web/reqhead/status"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/indigo-web/reqhead/server"

// startSpan continues the trace the client propagated in the request head, if any.
func (s *Server) startSpan(ctx context.Context, env *environ.Environ) (context.Context, trace.Span) {
	ctx = s.propagator.Extract(ctx, envCarrier{env})
	ctx, span := s.tracer.Start(
		ctx,
		env.Method()+" "+env.Path(),
		trace.WithSpanKind(trace.SpanKindServer),
	)

	span.SetAttributes(
		attribute.String("http.method", env.Method()),
		attribute.String("http.target", env.Value(environ.RequestURI)),
		attribute.String("http.flavor", env.Version()),
		attribute.String("net.peer.ip", env.Value(environ.RemoteAddr)),
	)

	return ctx, span
}

func endSpan(span trace.Span, code status.Code) {
	span.SetAttributes(attribute.Int("http.status_code", int(code)))

	if code >= status.InternalServerError {
		span.SetStatus(codes.Error, string(status.Text(code)))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// envCarrier adapts the header fields of an environ to propagation.TextMapCarrier. Lookups are
// case-insensitive. The request is read-only, so Set does nothing.
type envCarrier struct {
	env *environ.Environ
}

var _ propagation.TextMapCarrier = envCarrier{}

func (e envCarrier) Get(key string) string {
	value, _ := e.env.Header(key)
	return value
}

func (envCarrier) Set(string, string) {}

func (e envCarrier) Keys() []string {
	fields := e.env.Fields()
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, field.Key)
	}

	return keys
}
