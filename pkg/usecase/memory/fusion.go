package memory

import (
	"sort"

	"github.com/m-mizutani/memoir/pkg/model"
)

type scoredRecord struct {
	rec model.MemoryRecord
	key float64
}

// fuseResults combines per-modality result lists into one ordering.
//
// Raw distance fusion pools every record and sorts ascending by the raw
// distance, even though the modalities' embedding spaces are scaled
// differently; this mirrors the engine's historical ranking and is kept as
// an explicit, documented approximation. Percentile fusion first replaces
// each record's sort key with its percentile rank inside its own modality
// list, so modalities compete on rank instead of raw scale.
//
// Only the ordering is affected; records keep their modality-local raw
// Distance either way. The sort is stable, with text preceding image in
// the pooled input, so equal keys resolve deterministically.
func fuseResults(fusion model.Fusion, lists [][]model.MemoryRecord) []model.MemoryRecord {
	var pooled []scoredRecord
	for _, list := range lists {
		for i, rec := range list {
			key := rec.Distance
			if fusion == model.FusionPercentileRank {
				key = percentileRank(i, len(list))
			}
			pooled = append(pooled, scoredRecord{rec: rec, key: key})
		}
	}

	sort.SliceStable(pooled, func(i, j int) bool {
		return pooled[i].key < pooled[j].key
	})

	records := make([]model.MemoryRecord, 0, len(pooled))
	for _, s := range pooled {
		records = append(records, s.rec)
	}

	return records
}

// percentileRank maps the i-th entry of an ascending list of length n to
// (0, 1]. Lists arrive already sorted by distance from their index, so
// the position is the rank.
func percentileRank(i, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(i+1) / float64(n)
}

// FuseResultsForTest is a test helper that exposes fuseResults
func FuseResultsForTest(fusion model.Fusion, lists [][]model.MemoryRecord) []model.MemoryRecord {
	return fuseResults(fusion, lists)
}
