package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not business-rule rejections:
// - ErrNotFound: entity does not exist in store
// - ErrStaleStatus: conditional update lost the race (stored status differed
//   from the expected prior status)
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation and precondition errors, use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrStaleStatus = errors.New("stale status")
	ErrUnavailable = errors.New("unavailable")
)
