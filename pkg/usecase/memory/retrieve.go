package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// SearchInput describes one search call
type SearchInput struct {
	Query string

	// Modality selects text, image, or all. Empty defaults to all.
	// Restricting to one modality is the integrity-preserving choice for
	// callers that care about ranking correctness, since it never mixes
	// distance scales.
	Modality model.Modality

	// N is the maximum number of results, clamped to [1, 20]
	N int

	// Fusion selects how cross-modal results are combined when Modality
	// is all. Empty defaults to raw distance pooling.
	Fusion model.Fusion
}

// Retrieve queries a single modality: embed the query, ask that
// modality's index for the n nearest neighbors, and tag each hit with the
// modality. It does not retry; retries belong to the boundary layer.
func (u *UseCase) Retrieve(ctx context.Context, query string, modality model.Modality, n int) ([]model.MemoryRecord, error) {
	if err := modality.Validate(); err != nil {
		return nil, err
	}
	return u.retrieve(ctx, query, modality, clampResults(n))
}

// retrieve is Retrieve without the public clamp, so internal callers can
// over-fetch candidates for date filtering.
func (u *UseCase) retrieve(ctx context.Context, query string, modality model.Modality, n int) ([]model.MemoryRecord, error) {
	if query == "" {
		return nil, goerr.Wrap(model.ErrEmptyQuery, "cannot search with empty query")
	}

	vec, err := u.embedders[modality].EmbedText(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query", goerr.V("modality", modality))
	}

	hits, err := u.indexes[modality].Query(ctx, vec, n)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query index", goerr.V("modality", modality))
	}

	records := make([]model.MemoryRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, hit.WithModality(modality))
	}

	return records, nil
}

// Search runs a search over one or every modality. For cross-modal
// searches, the per-modality retrievals run concurrently and the lists are
// combined by the selected fusion strategy. A modality whose index fails
// while another succeeds degrades the result (Degraded marker) rather than
// failing the whole call.
func (u *UseCase) Search(ctx context.Context, input SearchInput) (*model.SearchResult, error) {
	logger := logging.From(ctx).With("search_id", uuid.NewString())

	modality := input.Modality
	if modality == "" {
		modality = model.ModalityAll
	}

	n := clampResults(input.N)

	if modality != model.ModalityAll {
		if err := modality.Validate(); err != nil {
			return nil, err
		}

		records, err := u.retrieve(ctx, input.Query, modality, n)
		if err != nil {
			return nil, err
		}

		logger.Debug("modality search done", "modality", modality, "query", input.Query, "hits", len(records))
		return &model.SearchResult{
			Query:   input.Query,
			Records: records,
			Count:   len(records),
		}, nil
	}

	fusion := input.Fusion
	if fusion == "" {
		fusion = model.FusionRawDistance
	}
	if err := fusion.Validate(); err != nil {
		return nil, err
	}

	lists, degraded, err := u.retrieveAll(ctx, input.Query, n)
	if err != nil {
		return nil, err
	}

	for _, failure := range degraded {
		logger.Warn("modality degraded during cross-modal search",
			"modality", failure.Modality, "reason", failure.Message)
	}

	records := fuseResults(fusion, lists)
	if len(records) > n {
		records = records[:n]
	}

	logger.Debug("cross-modal search done", "query", input.Query, "fusion", fusion, "hits", len(records))
	return &model.SearchResult{
		Query:    input.Query,
		Records:  records,
		Count:    len(records),
		Degraded: degraded,
	}, nil
}

// retrieveAll fetches candidates from every modality concurrently, so
// wall-clock latency is bounded by the slower index rather than their sum.
// The per-modality calls share no state; each failure is captured in its
// own slot. All modalities failing is a request failure; a subset failing
// is a degradation.
func (u *UseCase) retrieveAll(ctx context.Context, query string, n int) ([][]model.MemoryRecord, []model.ModalityFailure, error) {
	modalities := []model.Modality{model.ModalityText, model.ModalityImage}

	results := make([][]model.MemoryRecord, len(modalities))
	errs := make([]error, len(modalities))

	g, ctx := errgroup.WithContext(ctx)
	for i, modality := range modalities {
		g.Go(func() error {
			results[i], errs[i] = u.retrieve(ctx, query, modality, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	// A deadline or cancellation must propagate, never be absorbed into a
	// partial result.
	if err := ctx.Err(); err != nil {
		return nil, nil, goerr.Wrap(err, "search aborted")
	}

	var degraded []model.ModalityFailure
	failed := 0
	for i, modality := range modalities {
		if errs[i] != nil {
			failed++
			degraded = append(degraded, model.ModalityFailure{
				Modality: modality,
				Message:  errs[i].Error(),
			})
		}
	}

	if failed == len(modalities) {
		return nil, nil, goerr.Wrap(errs[0], "all modalities failed")
	}

	return results, degraded, nil
}
