// Package requestcontext provides HTTP-independent accessors for request-scoped
// values. Middleware sets them; services read them. Keeping this package free of
// net/http lets domain code import only what it needs.
//
// The most important value here is the request time: the engine never reads the
// wall clock itself. The requesttime middleware (or the reminder worker tick)
// captures "now" once at the boundary and every computation downstream uses it,
// which is also what makes the test suites deterministic:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	actorIDKey     struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyActorID     = actorIDKey{}
)

// Now retrieves the request-scoped time from context. Falls back to the wall
// clock only when no boundary has set it (e.g. ad-hoc scripts).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// RequestID retrieves the correlation ID set by middleware, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// ActorID retrieves who is performing the action (admin or entity), or "".
func ActorID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyActorID).(string); ok {
		return id
	}
	return ""
}

// WithActorID injects an actor identifier into the context.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyActorID, id)
}
