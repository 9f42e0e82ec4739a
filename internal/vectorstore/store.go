// Package vectorstore provides the vector storage backends for the product
// catalog: a chromem-go index persisted on disk and a pgvector-backed
// Postgres store reached through the match_products SQL function.
//
// Both backends satisfy Store and convert their native score unit into the
// canonical similarity percentage internally, so callers never see raw
// distances.
package vectorstore

import (
	"context"
	"errors"
)

var (
	// ErrIndexNotFound indicates the local index directory is missing or
	// empty. The operator must run ingestion first.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrBackendUnavailable indicates a network, auth, or remote-procedure
	// failure against the managed store. Not retried; a single attempt is
	// made and the error surfaces to the caller.
	ErrBackendUnavailable = errors.New("vector store backend unavailable")

	// ErrMalformedResult indicates a returned row is missing expected fields.
	ErrMalformedResult = errors.New("malformed search result")

	// ErrUnknownCollection indicates a purpose key with no configured
	// collection name.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Document is a unit of indexed content. Immutable once stored; created
// during ingestion, read during retrieval.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Match is a retrieved document with its similarity in the canonical
// percentage unit (see Percent). Exists only for the duration of one
// retrieval call; never persisted.
type Match struct {
	Document   Document
	Similarity float64
}

// Store is the capability interface shared by both backends.
//
// Search returns at most k matches from the named collection, best-first.
// An empty or unknown collection yields an empty slice, not an error.
// Implementations convert raw backend scores to canonical percentages
// before returning.
type Store interface {
	Search(ctx context.Context, query []float32, collection string, k int) ([]Match, error)
	Add(ctx context.Context, collection string, docs []Document) error
	Close() error
}

// IsNotFound reports whether err is the missing-index condition.
// Convenience for callers rendering operator hints.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIndexNotFound)
}

// EmbedFunc maps a text to its embedding vector. Both backends need one:
// the local index embeds documents at ingestion time, the postgres store
// embeds them before insert. All vectors in one store instance must share
// the same dimension.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)
