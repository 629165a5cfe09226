package memory_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/repository"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
	"github.com/philippgille/chromem-go"
)

// fixedEmbedder returns canned vectors per input so nearest-neighbor
// ordering in the test is fully determined.
type fixedEmbedder struct {
	vectors map[string][]float32
}

func (f *fixedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f *fixedEmbedder) EmbedImage(ctx context.Context, data []byte, mimeType string) ([]float32, error) {
	return []float32{0, 0, 1}, nil
}

func (f *fixedEmbedder) Dimension() int {
	return testDimension
}

func newChromemUseCase(t *testing.T, emb *fixedEmbedder) *memory.UseCase {
	t.Helper()

	embedFn := chromem.EmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
		return emb.EmbedText(ctx, text)
	})

	textIdx, err := repository.NewChromemInMemory(model.ModalityText, testDimension, embedFn)
	gt.NoError(t, err)
	imageIdx, err := repository.NewChromemInMemory(model.ModalityImage, testDimension, embedFn)
	gt.NoError(t, err)

	uc, err := memory.New(
		memory.ModalitySet{Embedder: emb, Index: textIdx},
		memory.ModalitySet{Embedder: emb, Index: imageIdx},
	)
	gt.NoError(t, err)
	return uc
}

func TestSearchByDate(t *testing.T) {
	ctx := context.Background()

	coffee := "Morning coffee and journaling"
	run := "Afternoon run around the lake on 2025-10-15"
	cooking := "Evening cooking class"

	emb := &fixedEmbedder{vectors: map[string][]float32{
		coffee:             {1, 0, 0},
		run:                {0.8, 0.6, 0},
		cooking:            {0.6, 0.8, 0},
		"daily activities": {1, 0, 0},
	}}
	uc := newChromemUseCase(t, emb)

	_, err := uc.AddText(ctx, coffee, map[string]string{model.MetaKeyDate: "2025-10-14"})
	gt.NoError(t, err)
	_, err = uc.AddText(ctx, run, nil)
	gt.NoError(t, err)
	_, err = uc.AddText(ctx, cooking, map[string]string{model.MetaKeyDate: "2025-10-15"})
	gt.NoError(t, err)

	result, err := uc.SearchByDate(ctx, "daily activities", "2025-10-15", "2025-10-15", 10)
	gt.NoError(t, err)

	// coffee is the nearest hit but falls outside the window; the two
	// October 15 memories survive in relevance order.
	gt.Equal(t, result.Count, 2)
	gt.Equal(t, result.Records[0].Content, run)
	gt.Equal(t, result.Records[1].Content, cooking)
	gt.A(t, result.Degraded).Length(0)
}

func TestSearchByDateUnparseableBoundIsOpen(t *testing.T) {
	ctx := context.Background()

	note := "Just a note"
	emb := &fixedEmbedder{vectors: map[string][]float32{
		note:   {1, 0, 0},
		"note": {1, 0, 0},
	}}
	uc := newChromemUseCase(t, emb)

	_, err := uc.AddText(ctx, note, map[string]string{model.MetaKeyDate: "2020-01-01"})
	gt.NoError(t, err)

	// The bound cannot be parsed, so the window is treated as open and
	// nothing is filtered out.
	result, err := uc.SearchByDate(ctx, "note", "whenever that was", "", 5)
	gt.NoError(t, err)
	gt.Equal(t, result.Count, 1)
}
