// Package gateway wraps the document store primitives behind a typed
// failure taxonomy and adds the batch/normalization behavior every cache
// depends on.
package gateway

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/log"
	"github.com/truyenhub/truyenhub/model"
	"github.com/truyenhub/truyenhub/worker"
)

type Gateway struct {
	store     docstore.Store
	pool      *worker.Pool
	batchSize int
}

func New(store docstore.Store, pool *worker.Pool, batchSize int) *Gateway {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Gateway{
		store:     store,
		pool:      pool,
		batchSize: batchSize,
	}
}

func (g *Gateway) GetByID(ctx context.Context, collection, id string) (docstore.Doc, error) {
	if id == "" {
		return nil, ErrInvalidArgument
	}
	doc, err := g.store.Get(ctx, collection, id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return doc, nil
}

func (g *Gateway) QueryByField(ctx context.Context, collection, field string, value any) ([]docstore.Doc, error) {
	return g.QueryByFields(ctx, collection, docstore.Eq(field, value))
}

func (g *Gateway) QueryByFields(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Doc, error) {
	list, err := g.store.Query(ctx, collection, filters...)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return list, nil
}

// BatchGetByIDs reads ids in chunks to bound concurrent reads. Chunk
// members are fetched in parallel and results concatenated in chunk
// order, so callers needing input order must re-key by id. Missing or
// failed ids are dropped silently, never surfaced as partial failure.
func (g *Gateway) BatchGetByIDs(ctx context.Context, collection string, ids []string) ([]docstore.Doc, error) {
	if len(ids) == 0 {
		return nil, ErrInvalidArgument
	}

	docs := make([]docstore.Doc, 0, len(ids))
	for i := 0; i < len(ids); i += g.batchSize {
		end := i + g.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[i:end]
		results := make([]docstore.Doc, len(chunk))

		var wg sync.WaitGroup
		wg.Add(len(chunk))
		jobs := make([]worker.Job, 0, len(chunk))
		for j, id := range chunk {
			j, id := j, id
			jobs = append(jobs, func() {
				defer wg.Done()
				doc, err := g.store.Get(ctx, collection, id)
				if err != nil {
					log.Warn("Dropping unreadable document from batch",
						zap.String("collection", collection),
						zap.String("id", id),
						zap.Error(err))
					return
				}
				results[j] = doc
			})
		}
		g.pool.Push(jobs...)
		wg.Wait()

		for _, doc := range results {
			if doc != nil {
				docs = append(docs, doc)
			}
		}
	}
	return docs, nil
}

func (g *Gateway) SetDoc(ctx context.Context, collection, id string, doc docstore.Doc) error {
	if id == "" {
		return ErrInvalidArgument
	}
	return normalizeErr(g.store.Set(ctx, collection, id, doc))
}

func (g *Gateway) AddDoc(ctx context.Context, collection string, doc docstore.Doc) (string, error) {
	id, err := g.store.Add(ctx, collection, doc)
	if err != nil {
		return "", normalizeErr(err)
	}
	return id, nil
}

func (g *Gateway) UpdateDoc(ctx context.Context, collection, id string, fields docstore.Doc) error {
	if id == "" {
		return ErrInvalidArgument
	}
	return normalizeErr(g.store.Update(ctx, collection, id, fields))
}

func (g *Gateway) DeleteDoc(ctx context.Context, collection, id string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	return normalizeErr(g.store.Delete(ctx, collection, id))
}

// NormalizeTimestamps rewrites server-timestamp fields into the textual
// "{day}/{month}/{year}" format. Fields already holding strings pass
// through untouched, so re-normalizing is safe.
func NormalizeTimestamps(doc docstore.Doc, fields ...string) docstore.Doc {
	for _, field := range fields {
		if ts, ok := docstore.AsTimestamp(doc[field]); ok {
			doc[field] = model.FormatDate(ts.Time())
		}
	}
	return doc
}
