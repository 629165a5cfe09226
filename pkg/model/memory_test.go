package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/memoir/pkg/model"
)

func TestNewMemoryID(t *testing.T) {
	id1 := model.NewMemoryID([]byte("morning walk in the park"))
	id2 := model.NewMemoryID([]byte("morning walk in the park"))
	id3 := model.NewMemoryID([]byte("evening run by the river"))

	gt.Equal(t, id1, id2)
	gt.NotEqual(t, id1, id3)
	gt.Equal(t, len(id1), 64) // hex-encoded SHA-256
}

func TestWithModality(t *testing.T) {
	original := model.MemoryRecord{
		ID:       model.NewMemoryID([]byte("content")),
		Content:  "content",
		Metadata: map[string]string{model.MetaKeyTitle: "original"},
	}

	tagged := original.WithModality(model.ModalityText)
	gt.Equal(t, tagged.Modality, model.ModalityText)
	gt.Equal(t, original.Modality, model.Modality(""))

	// The copy must not share metadata with the original
	tagged.Metadata[model.MetaKeyTitle] = "changed"
	gt.Equal(t, original.Metadata[model.MetaKeyTitle], "original")
}

func TestWithDistance(t *testing.T) {
	original := model.MemoryRecord{
		ID:       "abc",
		Distance: 0.1,
		Metadata: map[string]string{model.MetaKeyTags: "walk"},
	}

	updated := original.WithDistance(0.8)
	gt.Equal(t, updated.Distance, 0.8)
	gt.Equal(t, original.Distance, 0.1)

	updated.Metadata[model.MetaKeyTags] = "run"
	gt.Equal(t, original.Metadata[model.MetaKeyTags], "walk")
}

func TestModalityValidate(t *testing.T) {
	testCases := []struct {
		modality model.Modality
		valid    bool
	}{
		{model.ModalityText, true},
		{model.ModalityImage, true},
		{model.ModalityAll, false},
		{model.Modality("audio"), false},
		{model.Modality(""), false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.modality), func(t *testing.T) {
			err := tc.modality.Validate()
			if tc.valid {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err)
			}
		})
	}
}

func TestFusionValidate(t *testing.T) {
	gt.NoError(t, model.FusionRawDistance.Validate())
	gt.NoError(t, model.FusionPercentileRank.Validate())
	gt.Error(t, model.Fusion("reciprocal").Validate())
}
