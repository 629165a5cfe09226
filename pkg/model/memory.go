package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// Modality is the kind of memory content. Each modality has its own
// embedding space and its own vector index.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"

	// ModalityAll is accepted at the API edge to search every modality.
	// It is never stored on a record.
	ModalityAll Modality = "all"
)

// Validate checks that the modality names a real index
func (m Modality) Validate() error {
	switch m {
	case ModalityText, ModalityImage:
		return nil
	default:
		return ErrUnknownModality
	}
}

type MemoryID string

// NewMemoryID derives a MemoryID from raw content bytes. The ID is a
// SHA-256 content hash: identical content always yields the same ID, so
// re-ingesting unchanged content is an upsert, not a duplicate insert.
func NewMemoryID(content []byte) MemoryID {
	sum := sha256.Sum256(content)
	return MemoryID(hex.EncodeToString(sum[:]))
}

// MemoryRecord is a single stored memory as seen by the retrieval engine.
// Records are immutable values: stages that need to attach a field derive
// a copy instead of mutating a record that may be shared across calls.
//
// Distance is the raw nearest-neighbor distance reported by the record's
// own modality index. It is only meaningfully comparable between records
// retrieved from the same modality in the same query; embedding spaces of
// different modalities are scaled differently.
type MemoryRecord struct {
	ID       MemoryID
	Modality Modality

	// Content is the raw text for text memories, or a path/URI for
	// image memories.
	Content string

	// Metadata carries optional fields such as title, tags, description,
	// date and timestamp.
	Metadata map[string]string

	Distance float64
}

// WithModality returns a copy of the record tagged with the given modality
func (r MemoryRecord) WithModality(m Modality) MemoryRecord {
	r.Modality = m
	r.Metadata = cloneMetadata(r.Metadata)
	return r
}

// WithDistance returns a copy of the record with the given distance
func (r MemoryRecord) WithDistance(d float64) MemoryRecord {
	r.Distance = d
	r.Metadata = cloneMetadata(r.Metadata)
	return r
}

func cloneMetadata(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	cloned := make(map[string]string, len(meta))
	for k, v := range meta {
		cloned[k] = v
	}
	return cloned
}

// Metadata keys recognized by the engine
const (
	MetaKeyTitle       = "title"
	MetaKeyTags        = "tags"
	MetaKeyDescription = "description"
	MetaKeyDate        = "date"
	MetaKeyTimestamp   = "timestamp"
)

// Stats summarizes how many memories each modality index holds
type Stats struct {
	Total      int
	TextCount  int
	ImageCount int
}
