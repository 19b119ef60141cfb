package docstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := Doc{"bookId": "b1", "title": "Số Đỏ", "genreList": []string{"trào phúng"}}
	require.NoError(t, s.Set(ctx, CollectionBooks, "b1", doc))

	got, err := s.Get(ctx, CollectionBooks, "b1")
	require.NoError(t, err)
	require.Equal(t, "Số Đỏ", got["title"])
	require.Equal(t, "b1", got["id"])

	require.NoError(t, s.Delete(ctx, CollectionBooks, "b1"))
	_, err = s.Get(ctx, CollectionBooks, "b1")
	require.ErrorIs(t, err, ErrNotFound)

	// deleting an absent document is not an error
	require.NoError(t, s.Delete(ctx, CollectionBooks, "b1"))
}

func TestQueryFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, CollectionChapters, "c1", Doc{"bookId": "b1", "chapterNum": 2}))
	require.NoError(t, s.Set(ctx, CollectionChapters, "c2", Doc{"bookId": "b1", "chapterNum": 1}))
	require.NoError(t, s.Set(ctx, CollectionChapters, "c3", Doc{"bookId": "b2", "chapterNum": 1}))

	list, err := s.Query(ctx, CollectionChapters, Eq("bookId", "b1"))
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = s.Query(ctx, CollectionChapters, Eq("bookId", "b1"), Eq("chapterNum", 1))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "c2", list[0]["id"])

	list, err = s.Query(ctx, CollectionChapters, Eq("bookId", "missing"))
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestQueryArrayContains(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, CollectionBooks, "b1", Doc{"genreList": []string{"kiếm hiệp", "tiên hiệp"}}))
	require.NoError(t, s.Set(ctx, CollectionBooks, "b2", Doc{"genreList": []string{"ngôn tình"}}))

	list, err := s.Query(ctx, CollectionBooks, ArrayContains("genreList", "tiên hiệp"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b1", list[0]["id"])
}

func TestUpdateArrayOps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, CollectionUsers, "u1", Doc{"libraryBookIdList": []string{"b1"}}))

	require.NoError(t, s.Update(ctx, CollectionUsers, "u1", Doc{"libraryBookIdList": ArrayUnion("b2")}))
	require.NoError(t, s.Update(ctx, CollectionUsers, "u1", Doc{"libraryBookIdList": ArrayUnion("b2")}))

	got, err := s.Get(ctx, CollectionUsers, "u1")
	require.NoError(t, err)
	require.Equal(t, []any{"b1", "b2"}, got["libraryBookIdList"])

	require.NoError(t, s.Update(ctx, CollectionUsers, "u1", Doc{"libraryBookIdList": ArrayRemove("b1", "missing")}))
	got, err = s.Get(ctx, CollectionUsers, "u1")
	require.NoError(t, err)
	require.Equal(t, []any{"b2"}, got["libraryBookIdList"])

	require.ErrorIs(t, s.Update(ctx, CollectionUsers, "nobody", Doc{"x": 1}), ErrNotFound)
}

func TestConcurrentUpdatesKeepEveryWrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, CollectionUsers, "u1", Doc{"libraryBookIdList": []string{}}))

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			errs <- s.Update(ctx, CollectionUsers, "u1", Doc{
				"libraryBookIdList": ArrayUnion(fmt.Sprintf("b%d", i)),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Get(ctx, CollectionUsers, "u1")
	require.NoError(t, err)
	require.Len(t, got["libraryBookIdList"], n)
}

func TestAddMintsID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, CollectionReviews, Doc{"bookId": "b1", "type": "positive"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(ctx, CollectionReviews, id)
	require.NoError(t, err)
	require.Equal(t, "positive", got["type"])
}

func TestTimestampRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ts := Now()
	require.NoError(t, s.Set(ctx, CollectionBooks, "b1", Doc{"lastUpdateDate": ts}))

	got, err := s.Get(ctx, CollectionBooks, "b1")
	require.NoError(t, err)

	back, ok := AsTimestamp(got["lastUpdateDate"])
	require.True(t, ok)
	require.Equal(t, ts.Seconds, back.Seconds)
}
