package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	chromem "github.com/philippgille/chromem-go"
)

// Local is the file-backed vector store. The whole index is loaded into
// memory from a persisted directory; chromem-go handles persistence and
// nearest-neighbor search and reports native cosine similarity.
type Local struct {
	db     *chromem.DB
	embed  EmbedFunc
	logger *slog.Logger
}

// OpenLocal loads an existing index from path for querying.
// A missing or empty directory yields ErrIndexNotFound: the index is
// produced by `vitrine index` and there is nothing to search before that.
func OpenLocal(path string, embed EmbedFunc, logger *slog.Logger) (*Local, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(entries) == 0) {
		return nil, fmt.Errorf("%w: no index at %s, run `vitrine index` first", ErrIndexNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading index directory %s: %w", path, err)
	}

	return newLocal(path, embed, logger)
}

// CreateLocal opens the index at path for ingestion, creating the
// directory when absent.
func CreateLocal(path string, embed EmbedFunc, logger *slog.Logger) (*Local, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("creating index directory %s: %w", path, err)
	}
	return newLocal(path, embed, logger)
}

func newLocal(path string, embed EmbedFunc, logger *slog.Logger) (*Local, error) {
	if embed == nil {
		return nil, fmt.Errorf("embed function is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("loading index at %s: %w", path, err)
	}

	logger.Debug("local index opened", "path", path)
	return &Local{db: db, embed: embed, logger: logger}, nil
}

// Search returns the top-k nearest neighbors from the named collection,
// best-first. Unknown or empty collections yield an empty slice.
func (l *Local) Search(ctx context.Context, query []float32, collection string, k int) ([]Match, error) {
	col := l.db.GetCollection(collection, chromem.EmbeddingFunc(l.embed))
	if col == nil {
		l.logger.Debug("collection not in index", "collection", collection)
		return nil, nil
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem rejects nResults larger than the collection size.
	if k > count {
		k = count
	}

	results, err := col.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %q: %w", collection, err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		metadata := r.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		matches = append(matches, Match{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: metadata,
			},
			Similarity: Percent(float64(r.Similarity), KindCosine),
		})
	}
	return matches, nil
}

// Add embeds and stores documents into the named collection. chromem
// persists each document to the index directory as it is added.
func (l *Local) Add(ctx context.Context, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	col, err := l.db.GetOrCreateCollection(collection, nil, chromem.EmbeddingFunc(l.embed))
	if err != nil {
		return fmt.Errorf("opening collection %q: %w", collection, err)
	}

	chromemDocs := make([]chromem.Document, 0, len(docs))
	for _, doc := range docs {
		chromemDocs = append(chromemDocs, chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		})
	}

	if err := col.AddDocuments(ctx, chromemDocs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding %d documents to %q: %w", len(docs), collection, err)
	}

	l.logger.Debug("documents indexed", "collection", collection, "count", len(docs))
	return nil
}

// Close releases the in-memory index. The persisted files stay on disk.
func (*Local) Close() error {
	return nil
}
