package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/adapter"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/repository"
)

const (
	minResults = 1
	maxResults = 20
	maxListing = 50

	// Date-constrained searches fetch extra candidates before filtering
	// so that a narrow window still fills the requested result count.
	dateSearchMultiplier = 3
)

// ModalitySet pairs one modality's embedding provider with its vector
// index. The two must agree on the embedding dimension.
type ModalitySet struct {
	Embedder adapter.Embedder
	Index    repository.Index
}

// UseCase is the multi-modal memory retrieval and temporal synthesis
// engine. It holds no mutable state of its own; the only persistent state
// lives inside the vector indexes. Construct it once at process start and
// pass it to every call.
type UseCase struct {
	embedders map[model.Modality]adapter.Embedder
	indexes   map[model.Modality]repository.Index
	storage   adapter.Storage
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithStorage enables reading image content from gs:// references
func WithStorage(s adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.storage = s
	}
}

// New creates the engine from one ModalitySet per modality. Embedding
// dimensions are validated against each index here so that a
// misconfiguration fails at startup instead of on the first request.
func New(text, image ModalitySet, opts ...Option) (*UseCase, error) {
	uc := &UseCase{
		embedders: map[model.Modality]adapter.Embedder{
			model.ModalityText:  text.Embedder,
			model.ModalityImage: image.Embedder,
		},
		indexes: map[model.Modality]repository.Index{
			model.ModalityText:  text.Index,
			model.ModalityImage: image.Index,
		},
	}

	for modality, idx := range uc.indexes {
		emb := uc.embedders[modality]
		if emb == nil || idx == nil {
			return nil, goerr.New("modality is not fully configured", goerr.V("modality", modality))
		}
		if emb.Dimension() != idx.Dimension() {
			return nil, goerr.Wrap(model.ErrDimensionMismatch, "embedder and index disagree",
				goerr.V("modality", modality),
				goerr.V("embedder", emb.Dimension()),
				goerr.V("index", idx.Dimension()))
		}
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc, nil
}

func clampResults(n int) int {
	if n < minResults {
		return minResults
	}
	if n > maxResults {
		return maxResults
	}
	return n
}
