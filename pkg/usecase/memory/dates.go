package memory

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
	"github.com/m-mizutani/memoir/pkg/model"
)

// dateLayout renders resolved dates at day granularity
const dateLayout = "2006-01-02"

// Free-text date patterns, tried strictly in this order. The first
// pattern TYPE that matches anywhere in the text wins, even if a later
// pattern type would have matched an earlier-occurring date. Keeping the
// scan ordered by pattern rather than by text position is a deliberate
// policy: ISO dates are the most reliable evidence, month-name forms the
// least.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}\b`),
}

// resolveDate finds the temporal anchor for a record. Resolution order:
// metadata date, then metadata timestamp, then a pattern scan over the
// free-text content. A structured field that is present but unparseable
// resolves to nothing; it never falls through to the text scan. Returning
// nil is a normal outcome, not an error.
func resolveDate(rec model.MemoryRecord) *time.Time {
	if raw := rec.Metadata[model.MetaKeyDate]; raw != "" {
		return parseDate(raw)
	}
	if raw := rec.Metadata[model.MetaKeyTimestamp]; raw != "" {
		return parseDate(raw)
	}
	return extractDateFromText(rec.Content)
}

func extractDateFromText(text string) *time.Time {
	for _, pattern := range datePatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		if d := parseDate(match); d != nil {
			return d
		}
	}
	return nil
}

// parseDate parses a free-form date string to day granularity. The time
// portion, if any, is dropped so that filtering and ordering compare
// calendar dates only.
func parseDate(raw string) *time.Time {
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

// normalizeDateBound turns a natural-language or partial date string into
// a calendar date. An empty or unparseable bound yields nil, which the
// range filter treats as an open side rather than a failed request.
func normalizeDateBound(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	return parseDate(raw)
}

// ResolveDateForTest is a test helper that exposes resolveDate
func ResolveDateForTest(rec model.MemoryRecord) *time.Time {
	return resolveDate(rec)
}

// ExtractDateFromTextForTest is a test helper that exposes extractDateFromText
func ExtractDateFromTextForTest(text string) *time.Time {
	return extractDateFromText(text)
}

// NormalizeDateBoundForTest is a test helper that exposes normalizeDateBound
func NormalizeDateBoundForTest(raw string) *time.Time {
	return normalizeDateBound(raw)
}
