package k8s

import (
	"fmt"
	"sort"
	"time"
)

// sortRows orders resource rows by creation time (newest first), falling
// back to name so equal timestamps keep a stable order.
func sortRows[T Resource](items []T) {
	sort.Slice(items, func(i, j int) bool {
		createdI := items[i].GetCreatedAt()
		createdJ := items[j].GetCreatedAt()

		if !createdI.Equal(createdJ) {
			return createdI.After(createdJ)
		}
		return items[i].GetName() < items[j].GetName()
	})
}

// sortSnapshot orders an untyped snapshot the same way. Every cached
// summary embeds ResourceMetadata, so the assertion only fails for rows
// that were never produced by a transform; those sort last.
func sortSnapshot(items []any) {
	sort.Slice(items, func(i, j int) bool {
		resI, okI := items[i].(Resource)
		resJ, okJ := items[j].(Resource)
		if !okI || !okJ {
			return okI
		}

		createdI := resI.GetCreatedAt()
		createdJ := resJ.GetCreatedAt()

		if !createdI.Equal(createdJ) {
			return createdI.After(createdJ)
		}
		return resI.GetName() < resJ.GetName()
	})
}

// snapshotTyped filters a kind's snapshot down to its concrete row type
func snapshotTyped[T any](s *Store, resourceType ResourceType) []T {
	items := s.Snapshot(resourceType)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := item.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// formatEventAge formats event age in kubectl style (e.g., "5m", "2h", "3d")
func formatEventAge(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
