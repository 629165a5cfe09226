package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/philippgille/chromem-go"
)

// ChromemIndex is an embedded, file-backed Index built on chromem-go.
// Each modality gets its own collection so distances never mix embedding
// spaces inside the store.
type ChromemIndex struct {
	collection *chromem.Collection
	modality   model.Modality
	dimension  int
}

// NewChromem opens (or creates) a persistent chromem-go database at path
// and binds a collection named after the modality. embedFn is only used
// when chromem needs to embed text itself, such as the listing query; the
// engine always supplies precomputed vectors for documents and queries.
func NewChromem(path string, modality model.Modality, dimension int, embedFn chromem.EmbeddingFunc) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, goerr.Wrap(model.ErrIndexUnavailable, "failed to open chromem database", goerr.V("path", path))
	}

	return newChromemIndex(db, modality, dimension, embedFn)
}

// NewChromemInMemory creates a non-persistent index. Used by tests and
// the throwaway console mode.
func NewChromemInMemory(modality model.Modality, dimension int, embedFn chromem.EmbeddingFunc) (*ChromemIndex, error) {
	return newChromemIndex(chromem.NewDB(), modality, dimension, embedFn)
}

func newChromemIndex(db *chromem.DB, modality model.Modality, dimension int, embedFn chromem.EmbeddingFunc) (*ChromemIndex, error) {
	if err := modality.Validate(); err != nil {
		return nil, err
	}

	col, err := db.GetOrCreateCollection("memories_"+string(modality), nil, embedFn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get or create collection", goerr.V("modality", modality))
	}

	return &ChromemIndex{
		collection: col,
		modality:   modality,
		dimension:  dimension,
	}, nil
}

func (x *ChromemIndex) Upsert(ctx context.Context, rec model.MemoryRecord, vec []float32) error {
	if len(vec) != x.dimension {
		return goerr.Wrap(model.ErrDimensionMismatch, "unexpected embedding dimension",
			goerr.V("got", len(vec)), goerr.V("want", x.dimension))
	}

	doc := chromem.Document{
		ID:        string(rec.ID),
		Content:   rec.Content,
		Metadata:  rec.Metadata,
		Embedding: vec,
	}

	// AddDocument replaces any existing document with the same ID, which
	// gives ingestion its upsert semantics.
	if err := x.collection.AddDocument(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to upsert document", goerr.V("id", rec.ID))
	}

	return nil
}

func (x *ChromemIndex) Query(ctx context.Context, vec []float32, n int) ([]model.MemoryRecord, error) {
	if len(vec) != x.dimension {
		return nil, goerr.Wrap(model.ErrDimensionMismatch, "unexpected query dimension",
			goerr.V("got", len(vec)), goerr.V("want", x.dimension))
	}

	// chromem fails when asked for more results than the collection holds
	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if n > count {
		n = count
	}

	results, err := x.collection.QueryEmbedding(ctx, vec, n, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "vector query failed", goerr.V("modality", x.modality))
	}

	records := make([]model.MemoryRecord, 0, len(results))
	for _, r := range results {
		records = append(records, x.toRecord(r.ID, r.Content, r.Metadata, 1-float64(r.Similarity)))
	}

	return records, nil
}

func (x *ChromemIndex) Delete(ctx context.Context, id model.MemoryID) error {
	if _, err := x.collection.GetByID(ctx, string(id)); err != nil {
		return goerr.Wrap(model.ErrNotFound, "no such document", goerr.V("id", id))
	}

	if err := x.collection.Delete(ctx, nil, nil, string(id)); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("id", id))
	}

	return nil
}

func (x *ChromemIndex) ListAll(ctx context.Context) ([]model.MemoryRecord, error) {
	// chromem has no listing API; querying with a placeholder string and
	// a result count equal to the collection size returns everything.
	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}

	results, err := x.collection.Query(ctx, " ", count, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V("modality", x.modality))
	}

	records := make([]model.MemoryRecord, 0, len(results))
	for _, r := range results {
		records = append(records, x.toRecord(r.ID, r.Content, r.Metadata, 0))
	}

	return records, nil
}

func (x *ChromemIndex) Count(ctx context.Context) (int, error) {
	return x.collection.Count(), nil
}

func (x *ChromemIndex) Dimension() int {
	return x.dimension
}

func (x *ChromemIndex) toRecord(id, content string, meta map[string]string, distance float64) model.MemoryRecord {
	cloned := make(map[string]string, len(meta))
	for k, v := range meta {
		cloned[k] = v
	}
	return model.MemoryRecord{
		ID:       model.MemoryID(id),
		Modality: x.modality,
		Content:  content,
		Metadata: cloned,
		Distance: distance,
	}
}
