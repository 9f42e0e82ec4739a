package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// Querier is the subset of pgxpool.Pool the postgres store depends on.
// Defined by the consumer so tests can substitute a fake.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PG is the managed-store backend. Nearest-neighbor search runs remotely in
// the match_products SQL function, which returns rows already carrying
// native cosine similarity. One attempt per call, no retry.
type PG struct {
	db     Querier
	table  string
	embed  EmbedFunc
	logger *slog.Logger
}

// NewPG creates a postgres-backed store over an existing pool or fake.
// table must be a validated identifier (config.Validate enforces this);
// it is interpolated only in the distance-mode query.
func NewPG(db Querier, table string, embed EmbedFunc, logger *slog.Logger) (*PG, error) {
	if db == nil {
		return nil, fmt.Errorf("querier is required")
	}
	if embed == nil {
		return nil, fmt.Errorf("embed function is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PG{db: db, table: table, embed: embed, logger: logger}, nil
}

// NewPool creates a pgx pool with pgvector types registered.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", ErrBackendUnavailable, err)
	}

	return pool, nil
}

// Search calls the match_products remote procedure with the query vector,
// target collection, and match count. The remote side orders best-first and
// returns (content, metadata, similarity) rows.
func (p *PG) Search(ctx context.Context, query []float32, collection string, k int) ([]Match, error) {
	rows, err := p.db.Query(ctx,
		`SELECT content, metadata, similarity FROM match_products($1, $2, $3)`,
		pgvector.NewVector(query), collection, k)
	if err != nil {
		return nil, fmt.Errorf("%w: calling match_products: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	return p.scanMatches(rows, KindCosine)
}

// SearchByDistance runs the same nearest-neighbor query in distance mode:
// it returns squared L2 distance instead of similarity and normalizes with
// the L2 rule. Used by the compare command to cross-check the two scoring
// paths against each other.
func (p *PG) SearchByDistance(ctx context.Context, query []float32, collection string, k int) ([]Match, error) {
	// p.table passed identifier validation at config time.
	sql := fmt.Sprintf(
		`SELECT content, metadata, power(embedding <-> $1, 2) AS distance
		 FROM %s WHERE collection = $2
		 ORDER BY embedding <-> $1 LIMIT $3`, p.table)

	rows, err := p.db.Query(ctx, sql, pgvector.NewVector(query), collection, k)
	if err != nil {
		return nil, fmt.Errorf("%w: distance query: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	return p.scanMatches(rows, KindL2Squared)
}

// scanMatches converts result rows into canonical matches. A null metadata
// column becomes an empty map; missing content or score columns surface as
// ErrMalformedResult.
func (p *PG) scanMatches(rows pgx.Rows, kind ScoreKind) ([]Match, error) {
	var matches []Match
	for rows.Next() {
		var (
			content     string
			metadataRaw []byte
			raw         float64
		)
		if err := rows.Scan(&content, &metadataRaw, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}

		metadata := map[string]string{}
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
				p.logger.Warn("unparseable metadata, substituting empty map", "error", err)
				metadata = map[string]string{}
			}
			if metadata == nil { // JSON literal null
				metadata = map[string]string{}
			}
		}

		matches = append(matches, Match{
			Document:   Document{ID: metadata["id"], Content: content, Metadata: metadata},
			Similarity: Percent(raw, kind),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading rows: %v", ErrBackendUnavailable, err)
	}
	return matches, nil
}

// Add embeds and upserts documents into the products table.
func (p *PG) Add(ctx context.Context, collection string, docs []Document) error {
	for _, doc := range docs {
		vec, err := p.embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embedding document %q: %w", doc.ID, err)
		}

		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for %q: %w", doc.ID, err)
		}

		// p.table passed identifier validation at config time.
		sql := fmt.Sprintf(
			`INSERT INTO %s (id, content, metadata, embedding, collection)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE
			 SET content = EXCLUDED.content,
			     metadata = EXCLUDED.metadata,
			     embedding = EXCLUDED.embedding,
			     collection = EXCLUDED.collection`, p.table)
		_, err = p.db.Exec(ctx, sql,
			doc.ID, doc.Content, metadataJSON, pgvector.NewVector(vec), collection)
		if err != nil {
			return fmt.Errorf("%w: upserting document %q: %v", ErrBackendUnavailable, doc.ID, err)
		}
	}

	p.logger.Debug("documents upserted", "collection", collection, "count", len(docs))
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (*PG) Close() error {
	return nil
}
