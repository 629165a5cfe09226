package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrEmptyQuery is returned when a search or embedding is requested
	// for an empty string.
	ErrEmptyQuery = goerr.New("query is empty")

	// ErrEmbeddingFailed is returned when the embedding provider cannot
	// embed the given query or content.
	ErrEmbeddingFailed = goerr.New("failed to embed content")

	// ErrIndexUnavailable is returned when a modality's vector index
	// cannot be reached.
	ErrIndexUnavailable = goerr.New("vector index is unavailable")

	// ErrDimensionMismatch is returned when an embedding's dimension does
	// not match the dimension the index was configured with. This is a
	// configuration error and is checked at startup where possible.
	ErrDimensionMismatch = goerr.New("embedding dimension mismatch")

	// ErrUnknownModality is returned for a modality that names no index
	ErrUnknownModality = goerr.New("unknown modality")

	// ErrUnknownFusion is returned for an unrecognized fusion strategy
	ErrUnknownFusion = goerr.New("unknown fusion strategy")

	// ErrNotFound is returned when a memory does not exist in the index
	ErrNotFound = goerr.New("memory not found")
)
