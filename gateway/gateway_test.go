package gateway

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/worker"
)

func newTestGateway(t *testing.T, batchSize int) (*Gateway, *docstore.SQLite) {
	t.Helper()
	store, err := docstore.Open(filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, worker.NewPool(4), batchSize), store
}

func TestGetByIDNotFound(t *testing.T) {
	g, _ := newTestGateway(t, 10)

	_, err := g.GetByID(context.Background(), docstore.CollectionBooks, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = g.GetByID(context.Background(), docstore.CollectionBooks, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBatchGetByIDs(t *testing.T) {
	g, store := newTestGateway(t, 2)
	ctx := context.Background()

	for _, id := range []string{"b1", "b2", "b3", "b4", "b5"} {
		require.NoError(t, store.Set(ctx, docstore.CollectionBooks, id, docstore.Doc{"bookId": id}))
	}

	// "bX" is missing and must be dropped without an error
	docs, err := g.BatchGetByIDs(ctx, docstore.CollectionBooks, []string{"b1", "bX", "b2", "b3", "b4", "b5"})
	require.NoError(t, err)
	require.Len(t, docs, 5)

	// chunk order is preserved even though fetches run in parallel
	got := make([]string, 0, len(docs))
	for _, d := range docs {
		got = append(got, d["bookId"].(string))
	}
	require.Equal(t, []string{"b1", "b2", "b3", "b4", "b5"}, got)
}

func TestBatchGetByIDsEmpty(t *testing.T) {
	g, _ := newTestGateway(t, 10)

	_, err := g.BatchGetByIDs(context.Background(), docstore.CollectionBooks, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNormalizeTimestamps(t *testing.T) {
	ts := docstore.FromTime(time.Date(2024, time.January, 7, 12, 0, 0, 0, time.UTC))
	doc := docstore.Doc{
		"publishDate":    ts,
		"lastUpdateDate": "3/2/2023",
		"title":          "untouched",
	}

	NormalizeTimestamps(doc, "publishDate", "lastUpdateDate", "missing")
	require.Equal(t, "3/2/2023", doc["lastUpdateDate"])
	require.Equal(t, "untouched", doc["title"])
	require.IsType(t, "", doc["publishDate"])

	// re-normalizing is a no-op
	first := doc["publishDate"]
	NormalizeTimestamps(doc, "publishDate")
	require.Equal(t, first, doc["publishDate"])
}

func TestUpdateDocNotFound(t *testing.T) {
	g, _ := newTestGateway(t, 10)

	err := g.UpdateDoc(context.Background(), docstore.CollectionBooks, "missing", docstore.Doc{"title": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}
