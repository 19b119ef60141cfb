// Package store holds the app's client-side state: one cache per domain
// slice, each guarded by its own lock so a slow fetch on one slice never
// blocks reads on another. Fetch methods follow a fixed shape: mark the
// slice loading, release the lock across the network call, then reacquire
// and apply the result or the error message.
package store

import (
	"sync"

	"github.com/truyenhub/truyenhub/api"
	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/gateway"
	"github.com/truyenhub/truyenhub/model"
	"github.com/truyenhub/truyenhub/session"
)

type Store struct {
	gw       *gateway.Gateway
	accounts *api.Client
	session  *session.Session

	booksMu sync.RWMutex
	books   BooksState

	chaptersMu sync.RWMutex
	chapters   ChaptersState

	reviewsMu sync.RWMutex
	reviews   ReviewsState

	notifMu sync.RWMutex
	notif   NotificationsState

	accountMu sync.RWMutex
	account   AccountState
}

// BooksState is the public catalog cache.
type BooksState struct {
	Books  []model.Book
	Genres []model.Genre

	SelectedBook    *model.Book
	SelectedChapter *model.Chapter

	SearchKeyword string
	SearchResults []model.Book

	BookListingTitle string
	BooksForListing  []model.Book

	Loading bool
	Err     string
}

type ChaptersState struct {
	ChaptersOfSelectedBook []model.Chapter
	AllChapters            []model.Chapter

	Loading bool
	Err     string
}

type ReviewsState struct {
	Reviews []model.Review
	// UserReview is the signed-in user's review of the selected book,
	// nil when they have not reviewed it.
	UserReview *model.Review

	Loading bool
	Err     string

	Creating  bool
	CreateErr string
}

type NotificationsState struct {
	Notifications []model.Notification
	Grouped       []model.NotificationGroup

	Loading bool
	Err     string
}

// AccountState is the signed-in identity plus everything hanging off the
// user document: authored books, the library, and the reading position.
type AccountState struct {
	IsLogin   bool
	Loading   bool
	Uploading bool
	Err       string

	UserID   string
	Username string
	User     map[string]any

	CreationIDList             []string
	CreationList               []model.Book
	SelectedCreation           *model.Book
	ChaptersOfSelectedCreation []model.Chapter

	NewCreation        model.Book
	NewCreationChapter model.Chapter

	CurrentBookID     string
	CurrentChapterNum int
	CurrentBook       *model.Book

	ChaptersOfCurrentBook []model.Chapter

	LibraryBookIDList []string
	LibraryBookList   []model.Book

	NotificationList []string
}

func New(gw *gateway.Gateway, accounts *api.Client, sess *session.Session) *Store {
	return &Store{
		gw:       gw,
		accounts: accounts,
		session:  sess,
	}
}

// Books returns a point-in-time snapshot of the catalog slice. Slice and
// pointer members are shared; treat them as read-only.
func (s *Store) Books() BooksState {
	s.booksMu.RLock()
	defer s.booksMu.RUnlock()
	return s.books
}

func (s *Store) Chapters() ChaptersState {
	s.chaptersMu.RLock()
	defer s.chaptersMu.RUnlock()
	return s.chapters
}

func (s *Store) Reviews() ReviewsState {
	s.reviewsMu.RLock()
	defer s.reviewsMu.RUnlock()
	return s.reviews
}

func (s *Store) Notifications() NotificationsState {
	s.notifMu.RLock()
	defer s.notifMu.RUnlock()
	return s.notif
}

func (s *Store) Account() AccountState {
	s.accountMu.RLock()
	defer s.accountMu.RUnlock()
	return s.account
}

// currentUserID is the document id the account writes key on. Google
// sessions carry no account document, so this can be empty while IsLogin
// is true.
func (s *Store) currentUserID() string {
	s.accountMu.RLock()
	defer s.accountMu.RUnlock()
	if s.account.UserID != "" {
		return s.account.UserID
	}
	if id, ok := s.account.User["id"].(string); ok {
		return id
	}
	return ""
}

func decodeBook(doc docstore.Doc) (model.Book, error) {
	gateway.NormalizeTimestamps(doc, "publishDate", "lastUpdateDate")
	var b model.Book
	err := model.Decode(doc, &b)
	return b, err
}

func decodeBooks(docs []docstore.Doc) ([]model.Book, error) {
	books := make([]model.Book, 0, len(docs))
	for _, doc := range docs {
		b, err := decodeBook(doc)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

func decodeChapters(docs []docstore.Doc) ([]model.Chapter, error) {
	chapters := make([]model.Chapter, 0, len(docs))
	for _, doc := range docs {
		gateway.NormalizeTimestamps(doc, "publishDate", "lastUpdateDate", "createdDate")
		var c model.Chapter
		if err := model.Decode(doc, &c); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, nil
}

func asStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
