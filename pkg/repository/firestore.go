package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreIndex is an Index backed by Firestore vector search. It is the
// hosted alternative to the embedded chromem backend; one Firestore
// collection per modality keeps distance scales separated.
type FirestoreIndex struct {
	client     *firestore.Client
	collection string
	modality   model.Modality
	dimension  int
}

const distanceField = "vector_distance"

type memoryDoc struct {
	ID        string             `firestore:"id"`
	Content   string             `firestore:"content"`
	Metadata  map[string]string  `firestore:"metadata"`
	Embedding firestore.Vector32 `firestore:"embedding"`
	CreatedAt time.Time          `firestore:"created_at"`
}

// NewFirestore creates a Firestore-backed index for one modality
func NewFirestore(ctx context.Context, projectID, databaseID string, modality model.Modality, dimension int) (*FirestoreIndex, error) {
	if err := modality.Validate(); err != nil {
		return nil, err
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(model.ErrIndexUnavailable, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &FirestoreIndex{
		client:     client,
		collection: "memories_" + string(modality),
		modality:   modality,
		dimension:  dimension,
	}, nil
}

func (x *FirestoreIndex) Upsert(ctx context.Context, rec model.MemoryRecord, vec []float32) error {
	if len(vec) != x.dimension {
		return goerr.Wrap(model.ErrDimensionMismatch, "unexpected embedding dimension",
			goerr.V("got", len(vec)), goerr.V("want", x.dimension))
	}

	doc := memoryDoc{
		ID:        string(rec.ID),
		Content:   rec.Content,
		Metadata:  rec.Metadata,
		Embedding: firestore.Vector32(vec),
		CreatedAt: time.Now(),
	}

	if _, err := x.client.Collection(x.collection).Doc(doc.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to upsert document", goerr.V("id", rec.ID))
	}

	return nil
}

func (x *FirestoreIndex) Query(ctx context.Context, vec []float32, n int) ([]model.MemoryRecord, error) {
	if len(vec) != x.dimension {
		return nil, goerr.Wrap(model.ErrDimensionMismatch, "unexpected query dimension",
			goerr.V("got", len(vec)), goerr.V("want", x.dimension))
	}

	vq := x.client.Collection(x.collection).FindNearest("embedding",
		firestore.Vector32(vec), n, firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{DistanceResultField: distanceField})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	var records []model.MemoryRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(model.ErrIndexUnavailable, "vector query failed", goerr.V("modality", x.modality))
		}

		rec, err := x.toRecord(snap)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func (x *FirestoreIndex) Delete(ctx context.Context, id model.MemoryID) error {
	ref := x.client.Collection(x.collection).Doc(string(id))

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "no such document", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("id", id))
	}

	return nil
}

func (x *FirestoreIndex) ListAll(ctx context.Context) ([]model.MemoryRecord, error) {
	iter := x.client.Collection(x.collection).Documents(ctx)
	defer iter.Stop()

	var records []model.MemoryRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(model.ErrIndexUnavailable, "failed to list documents", goerr.V("modality", x.modality))
		}

		rec, err := x.toRecord(snap)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func (x *FirestoreIndex) Count(ctx context.Context) (int, error) {
	records, err := x.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (x *FirestoreIndex) Dimension() int {
	return x.dimension
}

func (x *FirestoreIndex) toRecord(snap *firestore.DocumentSnapshot) (model.MemoryRecord, error) {
	var doc memoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return model.MemoryRecord{}, goerr.Wrap(err, "failed to decode document", goerr.V("id", snap.Ref.ID))
	}

	var distance float64
	if raw, err := snap.DataAt(distanceField); err == nil {
		if d, ok := raw.(float64); ok {
			distance = d
		}
	}

	return model.MemoryRecord{
		ID:       model.MemoryID(doc.ID),
		Modality: x.modality,
		Content:  doc.Content,
		Metadata: doc.Metadata,
		Distance: distance,
	}, nil
}
