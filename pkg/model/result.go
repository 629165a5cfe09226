package model

import "time"

// Fusion selects how independently ranked per-modality result lists are
// combined into one ordering for a cross-modal search.
type Fusion string

const (
	// FusionRawDistance pools raw distances from every modality and sorts
	// them ascending. Distances from different embedding spaces are not on
	// the same scale, so this is an approximation; it is kept as the
	// default because it matches the engine's historical behavior.
	FusionRawDistance Fusion = "raw"

	// FusionPercentileRank replaces each distance with its percentile rank
	// within its own modality's result list before pooling, so modalities
	// compete on rank rather than on incomparable raw scales.
	FusionPercentileRank Fusion = "percentile"
)

// Validate checks that the fusion strategy is known
func (f Fusion) Validate() error {
	switch f {
	case FusionRawDistance, FusionPercentileRank:
		return nil
	default:
		return ErrUnknownFusion
	}
}

// ModalityFailure marks a modality whose index could not contribute to a
// cross-modal search. The search still succeeds with the remaining
// modalities; the failure is surfaced instead of being swallowed into a
// silently short result set.
type ModalityFailure struct {
	Modality Modality
	Message  string
}

// SearchResult is the outcome of one search call.
//
// When Records mixes modalities, their Distance values come from different
// embedding spaces and are ordered by the fusion strategy the caller chose;
// they must not be compared as absolute relevance scores.
type SearchResult struct {
	Query    string
	Records  []MemoryRecord
	Count    int
	Degraded []ModalityFailure
}

// TimelineEntry is a memory record with the calendar date the engine
// resolved for it. ResolvedDate is nil when no date could be found, which
// is a normal outcome.
type TimelineEntry struct {
	MemoryRecord
	ResolvedDate *time.Time
}

// SynthesisResult combines text and image search results into a single
// chronological timeline with a short summary.
type SynthesisResult struct {
	TextRecords   []MemoryRecord
	ImageRecords  []MemoryRecord
	CombinedCount int
	Timeline      []TimelineEntry
	Summary       string
	Degraded      []ModalityFailure
}
