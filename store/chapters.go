package store

import (
	"context"
	"sort"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/model"
)

func sortChaptersAsc(chapters []model.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].ChapterNum < chapters[j].ChapterNum
	})
}

// FetchChaptersOfSelectedBook loads a book's chapters in reading order.
func (s *Store) FetchChaptersOfSelectedBook(ctx context.Context, bookID string) error {
	s.chaptersMu.Lock()
	s.chapters.Loading = true
	s.chapters.Err = ""
	s.chaptersMu.Unlock()

	docs, err := s.gw.QueryByField(ctx, docstore.CollectionChapters, "bookId", bookID)
	if err == nil {
		var chapters []model.Chapter
		if chapters, err = decodeChapters(docs); err == nil {
			sortChaptersAsc(chapters)
			s.chaptersMu.Lock()
			s.chapters.ChaptersOfSelectedBook = chapters
			s.chapters.Loading = false
			s.chaptersMu.Unlock()
			return nil
		}
	}

	s.chaptersMu.Lock()
	s.chapters.Loading = false
	s.chapters.Err = err.Error()
	s.chaptersMu.Unlock()
	return err
}

// FetchAllChapters loads every chapter document, used for per-book
// chapter counts on the catalog screens.
func (s *Store) FetchAllChapters(ctx context.Context) error {
	s.chaptersMu.Lock()
	s.chapters.Loading = true
	s.chapters.Err = ""
	s.chaptersMu.Unlock()

	docs, err := s.gw.QueryByFields(ctx, docstore.CollectionChapters)
	if err == nil {
		var chapters []model.Chapter
		if chapters, err = decodeChapters(docs); err == nil {
			s.chaptersMu.Lock()
			s.chapters.AllChapters = chapters
			s.chapters.Loading = false
			s.chaptersMu.Unlock()
			return nil
		}
	}

	s.chaptersMu.Lock()
	s.chapters.Loading = false
	s.chapters.Err = err.Error()
	s.chaptersMu.Unlock()
	return err
}

// CountChaptersByBook tallies the loaded chapter set per book id.
func (s *Store) CountChaptersByBook() map[string]int {
	s.chaptersMu.RLock()
	defer s.chaptersMu.RUnlock()

	counts := make(map[string]int, len(s.chapters.AllChapters))
	for _, c := range s.chapters.AllChapters {
		counts[c.BookID]++
	}
	return counts
}
