package repository

import (
	"context"

	"github.com/m-mizutani/memoir/pkg/model"
)

// Index is the nearest-neighbor store for one modality. The engine treats
// it as a black box: it persists (id, vector, record) triples and answers
// nearest-neighbor queries ordered by ascending distance.
//
// All writes go through Upsert and Delete; the engine's read path never
// mutates index state. A write that completes mid-query may or may not be
// visible to that query.
type Index interface {
	// Upsert stores a record with its embedding. Storing the same ID
	// again replaces the previous entry.
	Upsert(ctx context.Context, rec model.MemoryRecord, vec []float32) error

	// Query returns the n nearest neighbors of vec, ascending by distance
	Query(ctx context.Context, vec []float32, n int) ([]model.MemoryRecord, error)

	// Delete removes a record by ID. Returns model.ErrNotFound when the
	// ID does not exist.
	Delete(ctx context.Context, id model.MemoryID) error

	// ListAll returns every stored record. Used by stats and listing,
	// not by the ranking path; no ordering is guaranteed.
	ListAll(ctx context.Context) ([]model.MemoryRecord, error)

	// Count returns the number of stored records
	Count(ctx context.Context) (int, error)

	// Dimension returns the embedding dimension this index expects
	Dimension() int
}
