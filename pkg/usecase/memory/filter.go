package memory

import (
	"time"

	"github.com/m-mizutani/memoir/pkg/model"
)

// filterByDateRange keeps records whose resolved date falls inclusively
// within the given bounds. A record with no resolvable date is always
// retained regardless of the range: silently dropping undated memories
// would make otherwise-relevant memories invisible.
func filterByDateRange(records []model.MemoryRecord, start, end *time.Time) []model.MemoryRecord {
	if start == nil && end == nil {
		return records
	}

	kept := make([]model.MemoryRecord, 0, len(records))
	for _, rec := range records {
		date := resolveDate(rec)
		if date == nil {
			kept = append(kept, rec)
			continue
		}
		if start != nil && date.Before(*start) {
			continue
		}
		if end != nil && date.After(*end) {
			continue
		}
		kept = append(kept, rec)
	}

	return kept
}

// FilterByDateRangeForTest is a test helper that exposes filterByDateRange
func FilterByDateRangeForTest(records []model.MemoryRecord, start, end *time.Time) []model.MemoryRecord {
	return filterByDateRange(records, start, end)
}
