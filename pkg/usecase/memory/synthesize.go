package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/utils/logging"
)

// SynthesizeInput describes one synthesis call
type SynthesizeInput struct {
	Query string

	// Start and End optionally constrain the timeline to a date window.
	// Free-form date strings are accepted; an unparseable bound is
	// treated as open.
	Start string
	End   string

	// NPerModality is the number of candidates fetched from each
	// modality, clamped to [1, 20].
	NPerModality int
}

// Synthesize searches both modalities, filters by the optional date
// window, and merges the survivors into a single chronological timeline
// with a short summary. One modality failing degrades the synthesis; both
// failing fails it.
func (u *UseCase) Synthesize(ctx context.Context, input SynthesizeInput) (*model.SynthesisResult, error) {
	n := clampResults(input.NPerModality)

	lists, degraded, err := u.retrieveAll(ctx, input.Query, n)
	if err != nil {
		return nil, err
	}
	for _, failure := range degraded {
		logging.From(ctx).Warn("modality degraded during synthesis",
			"modality", failure.Modality, "reason", failure.Message)
	}

	textRecords, imageRecords := lists[0], lists[1]

	startDate := normalizeDateBound(input.Start)
	endDate := normalizeDateBound(input.End)
	if startDate != nil || endDate != nil {
		textRecords = filterByDateRange(textRecords, startDate, endDate)
		imageRecords = filterByDateRange(imageRecords, startDate, endDate)
	}

	combined := make([]model.MemoryRecord, 0, len(textRecords)+len(imageRecords))
	combined = append(combined, textRecords...)
	combined = append(combined, imageRecords...)

	summary := synthesisSummary(input.Query, len(textRecords), len(imageRecords), startDate, endDate)

	return &model.SynthesisResult{
		TextRecords:   textRecords,
		ImageRecords:  imageRecords,
		CombinedCount: len(combined),
		Timeline:      buildTimeline(combined),
		Summary:       summary,
		Degraded:      degraded,
	}, nil
}

// synthesisSummary is a pure function producing the short report that
// heads a synthesis: the query echoed, the date window if one applied,
// and per-modality plus total counts. No side effects, no I/O.
func synthesisSummary(query string, textCount, imageCount int, start, end *time.Time) string {
	parts := []string{fmt.Sprintf("Memory synthesis for query: '%s'", query)}

	if start != nil || end != nil {
		var window []string
		if start != nil {
			window = append(window, "from "+start.Format(dateLayout))
		}
		if end != nil {
			window = append(window, "to "+end.Format(dateLayout))
		}
		parts = append(parts, "Date range: "+strings.Join(window, " "))
	}

	parts = append(parts,
		fmt.Sprintf("Found %d text memories and %d image memories", textCount, imageCount),
		fmt.Sprintf("Total: %d memories", textCount+imageCount),
	)

	return strings.Join(parts, "\n")
}

// SynthesisSummaryForTest is a test helper that exposes synthesisSummary
func SynthesisSummaryForTest(query string, textCount, imageCount int, start, end *time.Time) string {
	return synthesisSummary(query, textCount, imageCount, start, end)
}
