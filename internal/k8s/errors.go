package k8s

import (
	"context"
	"errors"
	"net"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrorClass buckets API server failures by how the caller should react
type ErrorClass string

const (
	// ErrorAuth means credentials were rejected. Retrying rarely helps, so
	// the sync loop parks the kind in a failed state and retries slowly.
	ErrorAuth ErrorClass = "auth"

	// ErrorExpired means the watch revision was compacted away (410 Gone).
	// The only recovery is a fresh list.
	ErrorExpired ErrorClass = "expired"

	// ErrorNotFound means the resource no longer exists.
	ErrorNotFound ErrorClass = "not-found"

	// ErrorConflict means a write raced with another writer.
	ErrorConflict ErrorClass = "conflict"

	// ErrorCanceled means our own context was canceled or timed out.
	ErrorCanceled ErrorClass = "canceled"

	// ErrorTransient covers network hiccups and server-side pressure.
	// Retry with backoff.
	ErrorTransient ErrorClass = "transient"
)

// ClassifyError maps an API error to the reaction the caller should take.
// Unknown errors classify as transient so a flaky network never wedges a sync
// loop permanently.
func ClassifyError(err error) ErrorClass {
	switch {
	case err == nil:
		return ErrorTransient
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCanceled
	case apierrors.IsUnauthorized(err), apierrors.IsForbidden(err):
		return ErrorAuth
	case apierrors.IsResourceExpired(err), apierrors.IsGone(err):
		return ErrorExpired
	case apierrors.IsNotFound(err):
		return ErrorNotFound
	case apierrors.IsConflict(err):
		return ErrorConflict
	default:
		return ErrorTransient
	}
}

// IsTransient reports whether an operation is worth retrying automatically.
// Conflicts count: re-reading and re-applying usually resolves them.
func IsTransient(err error) bool {
	switch ClassifyError(err) {
	case ErrorTransient, ErrorConflict:
		return true
	}
	// Raw connection failures don't always carry an API status
	var netErr net.Error
	return errors.As(err, &netErr)
}
