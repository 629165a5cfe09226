package memory_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResolveDate(t *testing.T) {
	testCases := []struct {
		name     string
		rec      model.MemoryRecord
		expected *time.Time
	}{
		{
			name: "metadata date wins over content date",
			rec: model.MemoryRecord{
				Content:  "Went hiking on 2025-02-02",
				Metadata: map[string]string{model.MetaKeyDate: "2025-01-01"},
			},
			expected: day(2025, time.January, 1),
		},
		{
			name: "metadata timestamp used when date is absent",
			rec: model.MemoryRecord{
				Content:  "No date in this text",
				Metadata: map[string]string{model.MetaKeyTimestamp: "2025-03-05T10:30:00Z"},
			},
			expected: day(2025, time.March, 5),
		},
		{
			name: "unparseable metadata date does not fall through to text",
			rec: model.MemoryRecord{
				Content:  "Clearly dated 2025-06-10 in the text",
				Metadata: map[string]string{model.MetaKeyDate: "sometime last spring"},
			},
			expected: nil,
		},
		{
			name:     "iso date in content",
			rec:      model.MemoryRecord{Content: "Team dinner on 2024-11-30 was great"},
			expected: day(2024, time.November, 30),
		},
		{
			name:     "slash date in content",
			rec:      model.MemoryRecord{Content: "Flight booked for 3/14/2022"},
			expected: day(2022, time.March, 14),
		},
		{
			name:     "long month name in content",
			rec:      model.MemoryRecord{Content: "Moved apartments on March 5, 2021"},
			expected: day(2021, time.March, 5),
		},
		{
			name:     "abbreviated month in content",
			rec:      model.MemoryRecord{Content: "Concert tickets for 12 Mar 2023"},
			expected: day(2023, time.March, 12),
		},
		{
			name:     "iso beats an earlier month-name date",
			rec:      model.MemoryRecord{Content: "On January 2, 2020 we planned the 2021-06-15 trip"},
			expected: day(2021, time.June, 15),
		},
		{
			name:     "no date at all",
			rec:      model.MemoryRecord{Content: "A memory with no temporal anchor"},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := memory.ResolveDateForTest(tc.rec)
			if tc.expected == nil {
				gt.Nil(t, got)
				return
			}
			gt.NotNil(t, got)
			gt.Equal(t, *got, *tc.expected)
		})
	}
}

func TestExtractDateTruncatesTime(t *testing.T) {
	got := memory.ExtractDateFromTextForTest("meeting at 2025-04-01")
	gt.NotNil(t, got)
	gt.Equal(t, got.Hour(), 0)
	gt.Equal(t, got.Location(), time.UTC)
}

func TestNormalizeDateBound(t *testing.T) {
	gt.Nil(t, memory.NormalizeDateBoundForTest(""))
	gt.Nil(t, memory.NormalizeDateBoundForTest("not even close to a date zzz"))

	got := memory.NormalizeDateBoundForTest("2025-10-15")
	gt.NotNil(t, got)
	gt.Equal(t, *got, *day(2025, time.October, 15))
}
