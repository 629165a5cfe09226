package mcpserver

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/memoir/pkg/model"
)

func TestFormatSearchResult(t *testing.T) {
	result := &model.SearchResult{
		Query: "hiking",
		Records: []model.MemoryRecord{
			{
				ID:       "a",
				Modality: model.ModalityText,
				Content:  "Hiked the ridge trail",
				Metadata: map[string]string{
					model.MetaKeyTitle: "Ridge hike",
					model.MetaKeyDate:  "2025-06-01",
				},
				Distance: 0.1234,
			},
			{
				ID:       "b",
				Modality: model.ModalityImage,
				Content:  "gs://bucket/summit.jpg",
				Distance: 0.5,
			},
		},
		Count: 2,
	}

	got := formatSearchResult(result, "all")
	gt.S(t, got).Contains("Found 2 all memories for 'hiking':")
	gt.S(t, got).Contains("--- Memory 1 (text) ---")
	gt.S(t, got).Contains("Relevance Score: 0.1234")
	gt.S(t, got).Contains("Title: Ridge hike")
	gt.S(t, got).Contains("Date: 2025-06-01")
	gt.S(t, got).Contains("Content: Hiked the ridge trail")
	gt.S(t, got).Contains("--- Memory 2 (image) ---")
	gt.S(t, got).Contains("Image Path: gs://bucket/summit.jpg")
}

func TestFormatSearchResultEmpty(t *testing.T) {
	result := &model.SearchResult{Query: "nothing here"}
	got := formatSearchResult(result, "text")
	gt.Equal(t, got, "No text memories found for query: 'nothing here'")
}

func TestFormatSearchResultDegraded(t *testing.T) {
	result := &model.SearchResult{
		Query:   "hiking",
		Records: []model.MemoryRecord{{ID: "a", Modality: model.ModalityText, Content: "x"}},
		Count:   1,
		Degraded: []model.ModalityFailure{
			{Modality: model.ModalityImage, Message: "index offline"},
		},
	}

	got := formatSearchResult(result, "all")
	gt.S(t, got).Contains("Note: image memories were unavailable for this search (index offline)")
}

func TestFormatDateSearch(t *testing.T) {
	result := &model.SearchResult{
		Query:   "activities",
		Records: []model.MemoryRecord{{ID: "a", Modality: model.ModalityText, Content: "run"}},
		Count:   1,
	}

	got := formatDateSearch(result, "2025-10-14", "2025-10-15")
	gt.S(t, got).Contains("Found 1 memories for 'activities' from 2025-10-14 to 2025-10-15:")

	empty := formatDateSearch(&model.SearchResult{Query: "activities"}, "", "2025-10-15")
	gt.Equal(t, empty, "No memories found for 'activities' to 2025-10-15")
}

func TestFormatSynthesis(t *testing.T) {
	date := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)
	textRec := model.MemoryRecord{
		ID:       "a",
		Modality: model.ModalityText,
		Content:  "Afternoon run",
		Metadata: map[string]string{model.MetaKeyTitle: "Run"},
		Distance: 0.2,
	}
	imageRec := model.MemoryRecord{
		ID:       "b",
		Modality: model.ModalityImage,
		Content:  "/photos/lake.jpg",
		Metadata: map[string]string{model.MetaKeyDescription: "Lake at dusk"},
		Distance: 0.3,
	}

	result := &model.SynthesisResult{
		TextRecords:   []model.MemoryRecord{textRec},
		ImageRecords:  []model.MemoryRecord{imageRec},
		CombinedCount: 2,
		Timeline: []model.TimelineEntry{
			{MemoryRecord: textRec, ResolvedDate: &date},
			{MemoryRecord: imageRec},
		},
		Summary: "Memory synthesis for query: 'lake day'",
	}

	got := formatSynthesis(result)
	gt.S(t, got).Contains("=== MEMORY SYNTHESIS ===")
	gt.S(t, got).Contains("CHRONOLOGICAL TIMELINE:")
	gt.S(t, got).Contains("[2025-10-15] Memory 1 (TEXT)")
	gt.S(t, got).Contains("[Unknown date] Memory 2 (IMAGE)")
	gt.S(t, got).Contains("Relevance: 0.2000")
	gt.S(t, got).Contains("Title: Run")
	gt.S(t, got).Contains("Description: Lake at dusk")
	gt.S(t, got).Contains("Image: /photos/lake.jpg")
	gt.S(t, got).Contains("SUMMARY: 1 text + 1 images = 2 total memories")
	gt.S(t, got).Contains(strings.Repeat("=", 50))
}

func TestFormatSynthesisEmpty(t *testing.T) {
	got := formatSynthesis(&model.SynthesisResult{})
	gt.Equal(t, got, "No memories found for synthesis")
}

func TestFormatStats(t *testing.T) {
	got := formatStats(&model.Stats{Total: 5, TextCount: 3, ImageCount: 2})
	gt.Equal(t, got, "Memory Statistics:\n\n"+
		"Total Memories: 5\n"+
		"├── Text Memories: 3\n"+
		"└── Image Memories: 2")
}

func TestFormatRecent(t *testing.T) {
	got := formatRecent(nil, "")
	gt.Equal(t, got, "No all memories found.")

	records := []model.MemoryRecord{
		{ID: "a", Modality: model.ModalityText, Content: "note"},
	}
	got = formatRecent(records, "text")
	gt.S(t, got).Contains("Recent text memories (showing 1):")
	gt.S(t, got).Contains("Content: note")
}

func TestFormatAdded(t *testing.T) {
	got := formatAdded("abc123", "", "travel")
	gt.S(t, got).Contains("Successfully added text memory with ID: abc123")
	gt.S(t, got).Contains("Title: N/A")
	gt.S(t, got).Contains("Tags: travel")
}

func TestTruncate(t *testing.T) {
	gt.Equal(t, truncate("short", 10), "short")
	gt.Equal(t, truncate("0123456789abc", 10), "0123456789...")
}

func TestTruncateRuneBoundary(t *testing.T) {
	// The byte cutoff lands inside the two-byte é; the cut must back up
	// to the rune start instead of emitting invalid UTF-8.
	got := truncate("aéb", 2)
	gt.Equal(t, got, "a...")
	gt.True(t, utf8.ValidString(got))

	got = truncate(strings.Repeat("é", 10), 5)
	gt.True(t, utf8.ValidString(got))
	gt.Equal(t, got, "éé...")
}
