package testutil

import (
	"context"
	"net/http"
	"time"

	"lobbyreg/pkg/requestcontext"
)

// WithFixedTime returns a context pinned to t, simulating what the requesttime
// middleware does at the HTTP boundary. Services under test read "now" from it.
func WithFixedTime(ctx context.Context, t time.Time) context.Context {
	return requestcontext.WithTime(ctx, t)
}

// RequestAt pins an HTTP request to a fixed time, as the requesttime middleware
// would have done for a live request.
func RequestAt(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// RequestWithActor stamps an actor identifier onto a request context, standing
// in for the (out of scope) auth layer in handler tests.
func RequestWithActor(req *http.Request, actorID string) *http.Request {
	return req.WithContext(requestcontext.WithActorID(req.Context(), actorID))
}
