package memory

import (
	"sort"

	"github.com/m-mizutani/memoir/pkg/model"
)

// buildTimeline resolves a date for every record and stably sorts them
// into chronological order. Records with no resolved date sort after all
// dated records and keep their relative retrieval order among themselves;
// two records with the same resolved date keep their input order.
func buildTimeline(records []model.MemoryRecord) []model.TimelineEntry {
	entries := make([]model.TimelineEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, model.TimelineEntry{
			MemoryRecord: rec,
			ResolvedDate: resolveDate(rec),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].ResolvedDate, entries[j].ResolvedDate
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Before(*dj)
	})

	return entries
}

// BuildTimelineForTest is a test helper that exposes buildTimeline
func BuildTimelineForTest(records []model.MemoryRecord) []model.TimelineEntry {
	return buildTimeline(records)
}
