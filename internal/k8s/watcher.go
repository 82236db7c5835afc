package k8s

import (
	"context"
	"strconv"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/renato0307/vigia/internal/logging"
)

// syncKind drives the cache for one resource type: list a snapshot, seed the
// store, stream watch events, and start over when the stream cannot be
// resumed. Runs until ctx is canceled. The caller owns the done-channel
// acknowledgement.
//
// Recovery rules:
//   - clean stream close: re-watch from the current revision, no relist
//   - expired revision (410): relist immediately, backoff reset
//   - auth rejection: mark the kind failed, retry on the backoff schedule
//   - anything else: mark degraded, relist on the backoff schedule
func syncKind(ctx context.Context, client *Client, store *Store, resourceType ResourceType) {
	backoff := watchBackoff()

	for ctx.Err() == nil {
		store.MarkSyncing(resourceType)

		timing := logging.Start("list " + string(resourceType))
		items, revision, err := client.List(ctx, resourceType)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			class := ClassifyError(err)
			switch class {
			case ErrorCanceled:
				return
			case ErrorAuth:
				store.MarkFailed(resourceType, err)
			default:
				store.MarkDegraded(resourceType, err)
			}
			logging.Warn("List failed",
				"resource", resourceType,
				"class", class,
				"error", err)
			if !sleepCtx(ctx, backoff.Step()) {
				return
			}
			continue
		}

		count := store.Reseed(resourceType, items, revision)
		logging.EndWithCount(timing, count)

		// A good list resets the retry schedule
		backoff = watchBackoff()

		// Stream events, resuming across clean closes, until something
		// forces a relist.
		for ctx.Err() == nil {
			resumeFrom := strconv.FormatUint(store.Revision(resourceType), 10)
			w, err := client.Watch(ctx, resourceType, resumeFrom)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				class := ClassifyError(err)
				logging.Warn("Watch failed",
					"resource", resourceType,
					"revision", resumeFrom,
					"class", class,
					"error", err)
				switch class {
				case ErrorCanceled:
					return
				case ErrorExpired:
					// Revision compacted away; relist right now
				case ErrorAuth:
					store.MarkFailed(resourceType, err)
					sleepCtx(ctx, backoff.Step())
				default:
					store.MarkDegraded(resourceType, err)
					sleepCtx(ctx, backoff.Step())
				}
				break
			}

			relist := consumeWatch(ctx, w, store, resourceType)
			if relist {
				break
			}
		}
	}
}

// consumeWatch pumps one watch stream into the store. Returns true when
// recovery needs a fresh list, false when the stream closed cleanly and the
// caller can resume watching from the current revision.
func consumeWatch(ctx context.Context, w watch.Interface, store *Store, resourceType ResourceType) bool {
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return false

		case event, ok := <-w.ResultChan():
			if !ok {
				// Server-side timeout or graceful close
				return false
			}

			switch event.Type {
			case watch.Error:
				err := apierrors.FromObject(event.Object)
				store.MarkDegraded(resourceType, err)
				logging.Warn("Watch stream error",
					"resource", resourceType,
					"class", ClassifyError(err),
					"error", err)
				return true

			case watch.Bookmark:
				if u, ok := event.Object.(*unstructured.Unstructured); ok {
					store.AdvanceRevision(resourceType, u.GetResourceVersion())
				}

			case watch.Added, watch.Modified, watch.Deleted:
				u, _ := event.Object.(*unstructured.Unstructured)
				result := store.Apply(resourceType, event.Type, u)
				if result != ApplyApplied && result != ApplyDeleted {
					logging.Debug("Event dropped",
						"resource", resourceType,
						"event", event.Type,
						"result", result)
				}
			}
		}
	}
}

// sleepCtx waits for the duration or until ctx is canceled. Returns false
// when canceled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
