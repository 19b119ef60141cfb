package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truyenhub/truyenhub/docstore"
)

func seedChapter(t *testing.T, db *docstore.SQLite, id, bookID string, num int) {
	t.Helper()
	seedDoc(t, db, docstore.CollectionChapters, id, docstore.Doc{
		"chapterId":  id,
		"bookId":     bookID,
		"chapterNum": num,
	})
}

func TestChaptersSortedByNumber(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedChapter(t, db, "c3", "b1", 3)
	seedChapter(t, db, "c1", "b1", 1)
	seedChapter(t, db, "c2", "b1", 2)
	seedChapter(t, db, "x1", "b2", 1)

	require.NoError(t, s.FetchChaptersOfSelectedBook(ctx, "b1"))

	chapters := s.Chapters().ChaptersOfSelectedBook
	require.Len(t, chapters, 3)
	for i, c := range chapters {
		require.Equal(t, i+1, c.ChapterNum)
		require.Equal(t, "b1", c.BookID)
	}
}

func TestCountChaptersByBook(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedChapter(t, db, "c1", "b1", 1)
	seedChapter(t, db, "c2", "b1", 2)
	seedChapter(t, db, "c3", "b2", 1)

	require.NoError(t, s.FetchAllChapters(ctx))

	counts := s.CountChaptersByBook()
	require.Equal(t, 2, counts["b1"])
	require.Equal(t, 1, counts["b2"])
}
