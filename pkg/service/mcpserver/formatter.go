package mcpserver

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/memoir/pkg/model"
)

const (
	maxContentLength = 500
	maxListedLength  = 300
)

// formatSearchResult renders a search result for an assistant: ranked
// entries with their modality-local relevance score and metadata.
func formatSearchResult(result *model.SearchResult, memoryType string) string {
	if result.Count == 0 {
		return fmt.Sprintf("No %s memories found for query: '%s'", memoryType, result.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s memories for '%s':\n", result.Count, memoryType, result.Query)

	for i, rec := range result.Records {
		fmt.Fprintf(&b, "\n--- Memory %d (%s) ---\n", i+1, rec.Modality)
		fmt.Fprintf(&b, "Relevance Score: %.4f\n", rec.Distance)
		writeMetadata(&b, rec)
		writeContent(&b, rec, maxContentLength)
	}

	writeDegraded(&b, result.Degraded)
	return b.String()
}

func formatDateSearch(result *model.SearchResult, start, end string) string {
	var window string
	if start != "" {
		window = " from " + start
	}
	if end != "" {
		window += " to " + end
	}

	if result.Count == 0 {
		return fmt.Sprintf("No memories found for '%s'%s", result.Query, window)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d memories for '%s'%s:\n", result.Count, result.Query, window)

	for i, rec := range result.Records {
		fmt.Fprintf(&b, "\n--- Memory %d (%s) ---\n", i+1, rec.Modality)
		fmt.Fprintf(&b, "Relevance Score: %.4f\n", rec.Distance)
		writeMetadata(&b, rec)
		writeContent(&b, rec, maxListedLength)
	}

	writeDegraded(&b, result.Degraded)
	return b.String()
}

// formatSynthesis renders the chronological timeline view
func formatSynthesis(result *model.SynthesisResult) string {
	if result.CombinedCount == 0 {
		return "No memories found for synthesis"
	}

	var b strings.Builder
	b.WriteString("=== MEMORY SYNTHESIS ===\n\n")
	b.WriteString(result.Summary)
	b.WriteString("\n\n" + strings.Repeat("=", 50) + "\n")
	b.WriteString("\nCHRONOLOGICAL TIMELINE:\n")

	for i, entry := range result.Timeline {
		date := "Unknown date"
		if entry.ResolvedDate != nil {
			date = entry.ResolvedDate.Format("2006-01-02")
		}

		fmt.Fprintf(&b, "\n[%s] Memory %d (%s)\n", date, i+1, strings.ToUpper(string(entry.Modality)))
		fmt.Fprintf(&b, "  Relevance: %.4f\n", entry.Distance)
		if title := entry.Metadata[model.MetaKeyTitle]; title != "" {
			fmt.Fprintf(&b, "  Title: %s\n", title)
		}
		if tags := entry.Metadata[model.MetaKeyTags]; tags != "" {
			fmt.Fprintf(&b, "  Tags: %s\n", tags)
		}
		if entry.Modality == model.ModalityText {
			fmt.Fprintf(&b, "  Content: %s\n", truncate(entry.Content, maxListedLength))
		} else {
			if desc := entry.Metadata[model.MetaKeyDescription]; desc != "" {
				fmt.Fprintf(&b, "  Description: %s\n", desc)
			}
			fmt.Fprintf(&b, "  Image: %s\n", entry.Content)
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "\nSUMMARY: %d text + %d images = %d total memories\n",
		len(result.TextRecords), len(result.ImageRecords), result.CombinedCount)
	b.WriteString("\nUse this chronological timeline to craft a coherent narrative story for the user.")

	writeDegraded(&b, result.Degraded)
	return b.String()
}

func formatStats(stats *model.Stats) string {
	return fmt.Sprintf("Memory Statistics:\n\n"+
		"Total Memories: %d\n"+
		"├── Text Memories: %d\n"+
		"└── Image Memories: %d", stats.Total, stats.TextCount, stats.ImageCount)
}

func formatRecent(records []model.MemoryRecord, memoryType string) string {
	if memoryType == "" {
		memoryType = "all"
	}
	if len(records) == 0 {
		return fmt.Sprintf("No %s memories found.", memoryType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent %s memories (showing %d):\n", memoryType, len(records))

	for i, rec := range records {
		fmt.Fprintf(&b, "\n--- Memory %d (%s) ---\n", i+1, rec.Modality)
		writeMetadata(&b, rec)
		writeContent(&b, rec, maxListedLength)
	}

	return b.String()
}

func formatAdded(id model.MemoryID, title, tags string) string {
	if title == "" {
		title = "N/A"
	}
	if tags == "" {
		tags = "N/A"
	}
	return fmt.Sprintf("Successfully added text memory with ID: %s\nTitle: %s\nTags: %s", id, title, tags)
}

func writeMetadata(b *strings.Builder, rec model.MemoryRecord) {
	if title := rec.Metadata[model.MetaKeyTitle]; title != "" {
		fmt.Fprintf(b, "Title: %s\n", title)
	}
	if date := rec.Metadata[model.MetaKeyDate]; date != "" {
		fmt.Fprintf(b, "Date: %s\n", date)
	} else if ts := rec.Metadata[model.MetaKeyTimestamp]; ts != "" {
		fmt.Fprintf(b, "Date: %s\n", ts)
	}
	if tags := rec.Metadata[model.MetaKeyTags]; tags != "" {
		fmt.Fprintf(b, "Tags: %s\n", tags)
	}
	if desc := rec.Metadata[model.MetaKeyDescription]; desc != "" {
		fmt.Fprintf(b, "Description: %s\n", desc)
	}
}

func writeContent(b *strings.Builder, rec model.MemoryRecord, maxLen int) {
	if rec.Modality == model.ModalityImage {
		fmt.Fprintf(b, "Image Path: %s\n", rec.Content)
		return
	}
	fmt.Fprintf(b, "Content: %s\n", truncate(rec.Content, maxLen))
}

func writeDegraded(b *strings.Builder, failures []model.ModalityFailure) {
	for _, f := range failures {
		fmt.Fprintf(b, "\nNote: %s memories were unavailable for this search (%s)\n", f.Modality, f.Message)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	// Never cut in the middle of a multi-byte rune
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
