package store

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/gateway"
	"github.com/truyenhub/truyenhub/log"
	"github.com/truyenhub/truyenhub/model"
)

// FetchBooks loads the full catalog.
func (s *Store) FetchBooks(ctx context.Context) error {
	s.booksMu.Lock()
	s.books.Loading = true
	s.books.Err = ""
	s.booksMu.Unlock()

	docs, err := s.gw.QueryByFields(ctx, docstore.CollectionBooks)
	if err == nil {
		var books []model.Book
		if books, err = decodeBooks(docs); err == nil {
			s.booksMu.Lock()
			s.books.Books = books
			s.books.Loading = false
			s.booksMu.Unlock()
			return nil
		}
	}

	s.booksMu.Lock()
	s.books.Loading = false
	s.books.Err = err.Error()
	s.booksMu.Unlock()
	return err
}

// FetchBooksForListing resolves a listing's id list into the books shown
// on a listing screen. Order follows the gateway's batch result, not ids.
func (s *Store) FetchBooksForListing(ctx context.Context, ids []string) error {
	s.booksMu.Lock()
	s.books.Loading = true
	s.books.Err = ""
	s.booksMu.Unlock()

	docs, err := s.gw.BatchGetByIDs(ctx, docstore.CollectionBooks, ids)
	if err == nil {
		var books []model.Book
		if books, err = decodeBooks(docs); err == nil {
			s.booksMu.Lock()
			s.books.BooksForListing = books
			s.books.Loading = false
			s.booksMu.Unlock()
			return nil
		}
	}

	s.booksMu.Lock()
	s.books.Loading = false
	s.books.Err = err.Error()
	s.booksMu.Unlock()
	return err
}

// FetchBookByID loads one book as the selected book. A missing id reads
// as the fixed "No such document!" error, not a transport failure.
func (s *Store) FetchBookByID(ctx context.Context, bookID string) error {
	s.booksMu.Lock()
	s.books.Loading = true
	s.books.Err = ""
	s.booksMu.Unlock()

	doc, err := s.gw.GetByID(ctx, docstore.CollectionBooks, bookID)
	if err == nil {
		var book model.Book
		if book, err = decodeBook(doc); err == nil {
			s.booksMu.Lock()
			s.books.SelectedBook = &book
			s.books.Loading = false
			s.booksMu.Unlock()
			return nil
		}
	}

	msg := err.Error()
	if errors.Is(err, gateway.ErrNotFound) {
		msg = "No such document!"
	}
	s.booksMu.Lock()
	s.books.Loading = false
	s.books.Err = msg
	s.booksMu.Unlock()
	return err
}

func (s *Store) FetchGenres(ctx context.Context) error {
	s.booksMu.Lock()
	s.books.Loading = true
	s.books.Err = ""
	s.booksMu.Unlock()

	docs, err := s.gw.QueryByFields(ctx, docstore.CollectionGenre)
	if err == nil {
		genres := make([]model.Genre, 0, len(docs))
		for _, doc := range docs {
			var g model.Genre
			if err = model.Decode(doc, &g); err != nil {
				break
			}
			genres = append(genres, g)
		}
		if err == nil {
			s.booksMu.Lock()
			s.books.Genres = genres
			s.books.Loading = false
			s.booksMu.Unlock()
			return nil
		}
	}

	s.booksMu.Lock()
	s.books.Loading = false
	s.books.Err = err.Error()
	s.booksMu.Unlock()
	return err
}

// SearchBooks runs one exact-match query per searchable field and unions
// the results, deduplicated by document id. The union also becomes the
// current listing so the search screen and listing screen share state.
func (s *Store) SearchBooks(ctx context.Context, keyword string) error {
	s.booksMu.Lock()
	s.books.SearchKeyword = keyword
	s.books.Loading = true
	s.books.Err = ""
	s.booksMu.Unlock()

	filters := []docstore.Filter{
		docstore.Eq("title", keyword),
		docstore.Eq("author", keyword),
		docstore.Eq("series", keyword),
		docstore.ArrayContains("genreList", keyword),
	}

	seen := make(map[string]bool)
	var matched []docstore.Doc
	var err error
	for _, filter := range filters {
		var docs []docstore.Doc
		docs, err = s.gw.QueryByFields(ctx, docstore.CollectionBooks, filter)
		if err != nil {
			break
		}
		for _, doc := range docs {
			id := asString(doc["id"])
			if seen[id] {
				continue
			}
			seen[id] = true
			matched = append(matched, doc)
		}
	}

	if err == nil {
		var books []model.Book
		if books, err = decodeBooks(matched); err == nil {
			s.booksMu.Lock()
			s.books.SearchResults = books
			s.books.BooksForListing = books
			s.books.Loading = false
			s.booksMu.Unlock()
			return nil
		}
	}

	s.booksMu.Lock()
	s.books.Loading = false
	s.books.Err = err.Error()
	s.booksMu.Unlock()
	return err
}

// FilterByGenre narrows the already-loaded catalog; it never refetches.
func (s *Store) FilterByGenre(name string) []model.Book {
	s.booksMu.RLock()
	defer s.booksMu.RUnlock()

	var out []model.Book
	for _, b := range s.books.Books {
		if b.HasGenre(name) {
			out = append(out, b)
		}
	}
	return out
}

// TopBooksByReadCount ranks the loaded catalog by read count, descending.
func (s *Store) TopBooksByReadCount(n int) []model.Book {
	s.booksMu.RLock()
	books := make([]model.Book, len(s.books.Books))
	copy(books, s.books.Books)
	s.booksMu.RUnlock()

	sort.SliceStable(books, func(i, j int) bool {
		return books[i].ReadCount > books[j].ReadCount
	})
	if n > 0 && n < len(books) {
		books = books[:n]
	}
	return books
}

func (s *Store) SetSelectedBook(b *model.Book) {
	s.booksMu.Lock()
	s.books.SelectedBook = b
	s.booksMu.Unlock()
	if b != nil {
		log.Debug("Selected book", zap.String("bookId", b.BookID))
	}
}

func (s *Store) SetSelectedChapter(c *model.Chapter) {
	s.booksMu.Lock()
	s.books.SelectedChapter = c
	s.booksMu.Unlock()
}

func (s *Store) SetBookListingTitle(title string) {
	s.booksMu.Lock()
	s.books.BookListingTitle = title
	s.booksMu.Unlock()
}

func (s *Store) SetSearchKeyword(keyword string) {
	s.booksMu.Lock()
	s.books.SearchKeyword = keyword
	s.booksMu.Unlock()
}
