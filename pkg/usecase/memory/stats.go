package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
)

// Stats reports how many memories each modality index holds
func (u *UseCase) Stats(ctx context.Context) (*model.Stats, error) {
	textCount, err := u.indexes[model.ModalityText].Count(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count text memories")
	}

	imageCount, err := u.indexes[model.ModalityImage].Count(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count image memories")
	}

	return &model.Stats{
		Total:      textCount + imageCount,
		TextCount:  textCount,
		ImageCount: imageCount,
	}, nil
}

// ListRecent lists stored memories without ranking them. limit is clamped
// to [1, 50]; modality may be text, image, or all.
func (u *UseCase) ListRecent(ctx context.Context, limit int, modality model.Modality) ([]model.MemoryRecord, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxListing {
		limit = maxListing
	}

	if modality == "" {
		modality = model.ModalityAll
	}
	if modality != model.ModalityAll {
		if err := modality.Validate(); err != nil {
			return nil, goerr.Wrap(err, "cannot list memories", goerr.V("modality", modality))
		}
	}

	var records []model.MemoryRecord
	for _, m := range []model.Modality{model.ModalityText, model.ModalityImage} {
		if modality != model.ModalityAll && modality != m {
			continue
		}

		listed, err := u.indexes[m].ListAll(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list memories", goerr.V("modality", m))
		}
		if len(listed) > limit {
			listed = listed[:limit]
		}
		records = append(records, listed...)
	}

	if len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}
