package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/model"
)

func TestFetchBooksNormalizesDates(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedBook(t, db, "b1", docstore.Doc{
		"title":       "Dế Mèn Phiêu Lưu Ký",
		"publishDate": docstore.FromTime(time.Date(2024, time.January, 7, 12, 0, 0, 0, time.UTC)),
		"readCount":   3,
	})
	seedBook(t, db, "b2", docstore.Doc{
		"title":       "Số Đỏ",
		"publishDate": "3/2/2023",
		"readCount":   9,
	})

	require.NoError(t, s.FetchBooks(ctx))

	state := s.Books()
	require.Len(t, state.Books, 2)
	require.False(t, state.Loading)
	for _, b := range state.Books {
		if b.BookID == "b1" {
			require.Equal(t, "7/1/2024", b.PublishDate)
		}
	}

	top := s.TopBooksByReadCount(1)
	require.Len(t, top, 1)
	require.Equal(t, "b2", top[0].BookID)
}

func TestFetchBookByIDMissing(t *testing.T) {
	s, _, _ := newTestStore(t)

	require.Error(t, s.FetchBookByID(context.Background(), "missing"))
	require.Equal(t, "No such document!", s.Books().Err)
	require.Nil(t, s.Books().SelectedBook)
}

func TestSearchBooksUnionDeduplicates(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	// matches both the title and the genre query, must appear once
	seedBook(t, db, "b1", docstore.Doc{
		"title":     "kiếm hiệp",
		"genreList": []string{"kiếm hiệp"},
	})
	seedBook(t, db, "b2", docstore.Doc{
		"author":    "kiếm hiệp",
		"genreList": []string{"ngôn tình"},
	})
	seedBook(t, db, "b3", docstore.Doc{
		"title": "khác hẳn",
	})

	require.NoError(t, s.SearchBooks(ctx, "kiếm hiệp"))

	state := s.Books()
	require.Equal(t, "kiếm hiệp", state.SearchKeyword)
	require.Len(t, state.SearchResults, 2)
	require.Equal(t, state.SearchResults, state.BooksForListing)
}

func TestSearchBooksMatchesSeries(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedBook(t, db, "b1", docstore.Doc{
		"title":  "Tiếu Ngạo Giang Hồ",
		"series": "Bộ Kiếm Hiệp",
	})
	seedBook(t, db, "b2", docstore.Doc{
		"title": "Truyện Chữ",
		"type":  model.BookTypeText,
	})

	require.NoError(t, s.SearchBooks(ctx, "Bộ Kiếm Hiệp"))
	results := s.Books().SearchResults
	require.Len(t, results, 1)
	require.Equal(t, "b1", results[0].BookID)

	// the book type is not a searchable field
	require.NoError(t, s.SearchBooks(ctx, model.BookTypeText))
	require.Empty(t, s.Books().SearchResults)
}

func TestFilterByGenre(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedBook(t, db, "b1", docstore.Doc{"genreList": []string{"trinh thám", "kinh dị"}})
	seedBook(t, db, "b2", docstore.Doc{"genreList": []string{"ngôn tình"}})
	require.NoError(t, s.FetchBooks(ctx))

	matched := s.FilterByGenre("trinh thám")
	require.Len(t, matched, 1)
	require.Equal(t, "b1", matched[0].BookID)
	require.Empty(t, s.FilterByGenre("hài hước"))
}

func TestFetchBooksForListing(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedBook(t, db, "b1", nil)
	seedBook(t, db, "b2", nil)

	// the missing id drops out without failing the listing
	require.NoError(t, s.FetchBooksForListing(ctx, []string{"b1", "missing", "b2"}))
	require.Len(t, s.Books().BooksForListing, 2)

	require.Error(t, s.FetchBooksForListing(ctx, nil))
}

func TestFetchGenres(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedDoc(t, db, docstore.CollectionGenre, "g1", docstore.Doc{"name": "kiếm hiệp"})
	seedDoc(t, db, docstore.CollectionGenre, "g2", docstore.Doc{"name": "ngôn tình"})

	require.NoError(t, s.FetchGenres(ctx))
	require.Len(t, s.Books().Genres, 2)
}
