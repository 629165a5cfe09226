package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
)

func TestSynthesize(t *testing.T) {
	textIdx := &mockIndex{
		dimension: testDimension,
		queryFunc: func(ctx context.Context, vec []float32, n int) ([]model.MemoryRecord, error) {
			return []model.MemoryRecord{
				datedRec("trip-notes", "2025-10-15").WithDistance(0.2),
				datedRec("packing-list", "2025-10-14").WithDistance(0.3),
			}, nil
		},
	}
	imageIdx := &mockIndex{
		dimension: testDimension,
		queryFunc: func(ctx context.Context, vec []float32, n int) ([]model.MemoryRecord, error) {
			return []model.MemoryRecord{
				datedRec("summit-photo", "2025-10-16").WithDistance(0.1),
			}, nil
		},
	}
	uc := newTestUseCase(t, textIdx, imageIdx)

	result, err := uc.Synthesize(context.Background(), memory.SynthesizeInput{
		Query:        "mountain trip",
		NPerModality: 5,
	})
	gt.NoError(t, err)

	gt.A(t, result.TextRecords).Length(2)
	gt.A(t, result.ImageRecords).Length(1)
	gt.Equal(t, result.CombinedCount, 3)
	gt.A(t, result.Degraded).Length(0)

	// Timeline is chronological across both modalities
	gt.A(t, result.Timeline).Length(3)
	gt.Equal(t, result.Timeline[0].ID, model.MemoryID("packing-list"))
	gt.Equal(t, result.Timeline[1].ID, model.MemoryID("trip-notes"))
	gt.Equal(t, result.Timeline[2].ID, model.MemoryID("summit-photo"))

	gt.S(t, result.Summary).Contains("Memory synthesis for query: 'mountain trip'")
	gt.S(t, result.Summary).Contains("Found 2 text memories and 1 image memories")
	gt.S(t, result.Summary).Contains("Total: 3 memories")
}

func TestSynthesizeWithDateWindow(t *testing.T) {
	textIdx := &mockIndex{
		dimension: testDimension,
		queryFunc: func(ctx context.Context, vec []float32, n int) ([]model.MemoryRecord, error) {
			return []model.MemoryRecord{
				datedRec("inside", "2025-10-15"),
				datedRec("outside", "2025-09-01"),
			}, nil
		},
	}
	imageIdx := &mockIndex{
		dimension: testDimension,
		queryFunc: func(ctx context.Context, vec []float32, n int) ([]model.MemoryRecord, error) {
			return []model.MemoryRecord{
				datedRec("also-outside", "2025-11-20"),
			}, nil
		},
	}
	uc := newTestUseCase(t, textIdx, imageIdx)

	result, err := uc.Synthesize(context.Background(), memory.SynthesizeInput{
		Query:        "october recap",
		Start:        "2025-10-01",
		End:          "2025-10-31",
		NPerModality: 5,
	})
	gt.NoError(t, err)

	gt.A(t, result.TextRecords).Length(1)
	gt.Equal(t, result.TextRecords[0].ID, model.MemoryID("inside"))
	gt.A(t, result.ImageRecords).Length(0)
	gt.Equal(t, result.CombinedCount, 1)

	gt.S(t, result.Summary).Contains("Date range: from 2025-10-01 to 2025-10-31")
}

func TestSynthesisSummaryFormat(t *testing.T) {
	t.Run("without date range", func(t *testing.T) {
		got := memory.SynthesisSummaryForTest("beach days", 3, 2, nil, nil)
		want := "Memory synthesis for query: 'beach days'\n" +
			"Found 3 text memories and 2 image memories\n" +
			"Total: 5 memories"
		gt.Equal(t, got, want)
	})

	t.Run("with full date range", func(t *testing.T) {
		got := memory.SynthesisSummaryForTest("beach days", 1, 0,
			day(2025, time.July, 1), day(2025, time.July, 31))
		want := "Memory synthesis for query: 'beach days'\n" +
			"Date range: from 2025-07-01 to 2025-07-31\n" +
			"Found 1 text memories and 0 image memories\n" +
			"Total: 1 memories"
		gt.Equal(t, got, want)
	})

	t.Run("with open end", func(t *testing.T) {
		got := memory.SynthesisSummaryForTest("beach days", 0, 1,
			day(2025, time.July, 1), nil)
		gt.S(t, got).Contains("Date range: from 2025-07-01")
	})
}
