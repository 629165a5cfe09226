package memory

import (
	"context"

	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/utils/logging"
)

// SearchByDate searches every modality and keeps only memories whose
// resolved date falls inside [start, end] (inclusive, day granularity).
// Bounds may be natural-language date strings; a bound that cannot be
// normalized is treated as absent instead of failing the call. The engine
// over-fetches candidates before filtering so a narrow window can still
// fill the requested count.
func (u *UseCase) SearchByDate(ctx context.Context, query, start, end string, n int) (*model.SearchResult, error) {
	n = clampResults(n)

	startDate := normalizeDateBound(start)
	endDate := normalizeDateBound(end)
	if start != "" && startDate == nil {
		logging.From(ctx).Warn("ignoring unparseable start date", "start", start)
	}
	if end != "" && endDate == nil {
		logging.From(ctx).Warn("ignoring unparseable end date", "end", end)
	}

	lists, degraded, err := u.retrieveAll(ctx, query, n*dateSearchMultiplier)
	if err != nil {
		return nil, err
	}

	records := fuseResults(model.FusionRawDistance, lists)
	records = filterByDateRange(records, startDate, endDate)
	if len(records) > n {
		records = records[:n]
	}

	return &model.SearchResult{
		Query:    query,
		Records:  records,
		Count:    len(records),
		Degraded: degraded,
	}, nil
}
