package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/gateway"
	"github.com/truyenhub/truyenhub/log"
	"github.com/truyenhub/truyenhub/model"
	"github.com/truyenhub/truyenhub/validator"
)

// applyUserDoc hydrates the account slice from a user document. Callers
// hold accountMu.
func (s *Store) applyUserDoc(user map[string]any, userID string) {
	s.account.User = user
	s.account.UserID = userID
	s.account.Username = asString(user["username"])
	s.account.CurrentBookID = asString(user["currentBookId"])
	s.account.CurrentChapterNum = asInt(user["currentBookChapterNum"])
	s.account.CreationIDList = asStringList(user["creationIdList"])
	s.account.LibraryBookIDList = asStringList(user["libraryBookIdList"])
	s.account.NotificationList = asStringList(user["notificationList"])
	s.account.IsLogin = true
}

func (s *Store) Register(ctx context.Context, email, username, password, repeatPassword string) error {
	if err := validator.ValidateRegister(email, username, password, repeatPassword); err != nil {
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	uid, err := s.accounts.Register(ctx, email, password, username)
	if err != nil {
		s.accountMu.Lock()
		s.account.Loading = false
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account.Loading = false
	s.accountMu.Unlock()
	log.Info("Account registered", zap.String("uid", uid))
	return nil
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := validator.ValidateLogin(email, password); err != nil {
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	resp, err := s.accounts.Login(ctx, email, password)
	if err == nil {
		err = s.session.Persist(resp.User, resp.Token)
	}
	if err != nil {
		s.accountMu.Lock()
		s.account.Loading = false
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.applyUserDoc(resp.User, resp.UserID)
	s.account.Loading = false
	s.accountMu.Unlock()
	return nil
}

// LoginGoogle signs in without an account document: the session holds
// only the profile handed over by the provider, so the library and
// creation features stay empty until the user links a full account.
func (s *Store) LoginGoogle(ctx context.Context, uid, email, name, photoURL string) error {
	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	token, err := s.accounts.LoginGoogle(ctx, uid, email, name, photoURL)
	user := map[string]any{
		"uid":      uid,
		"email":    email,
		"name":     name,
		"photoURL": photoURL,
		"provider": "google",
	}
	if err == nil {
		err = s.session.Persist(user, token)
	}
	if err != nil {
		s.accountMu.Lock()
		s.account.Loading = false
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account.User = user
	s.account.Username = name
	s.account.IsLogin = true
	s.account.Loading = false
	s.accountMu.Unlock()
	return nil
}

// RestoreSession rehydrates the account from the stored session at app
// start. It reports whether a usable session existed.
func (s *Store) RestoreSession() bool {
	user, _, ok := s.session.Restore()
	if !ok {
		return false
	}

	s.accountMu.Lock()
	s.applyUserDoc(user, asString(user["id"]))
	s.accountMu.Unlock()
	return true
}

// Logout clears the stored session and resets every slice derived from
// the account.
func (s *Store) Logout() error {
	if err := s.session.Clear(); err != nil {
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account = AccountState{}
	s.accountMu.Unlock()

	s.notifMu.Lock()
	s.notif = NotificationsState{}
	s.notifMu.Unlock()
	return nil
}

// UpdateProfile pushes profile fields to the accounts service. When the
// remote update fails for any reason the change still applies locally and
// persists, so the profile screen never loses the user's edit.
func (s *Store) UpdateProfile(ctx context.Context, fields map[string]any) error {
	s.accountMu.RLock()
	current := s.account.User
	s.accountMu.RUnlock()
	if current == nil {
		err := errors.New("Không tìm thấy người dùng!")
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	merged := make(map[string]any, len(current)+len(fields))
	for k, v := range current {
		merged[k] = v
	}

	updated, err := s.accounts.UpdateProfile(ctx, s.session.Token(), fields)
	if err == nil && updated != nil {
		for k, v := range updated {
			merged[k] = v
		}
	} else {
		log.Warn("Remote profile update failed, keeping local changes", zap.Error(err))
		for k, v := range fields {
			merged[k] = v
		}
	}

	if err := s.session.PersistUser(merged); err != nil {
		log.Error("Failed to persist updated profile", zap.Error(err))
	}

	s.accountMu.Lock()
	s.account.User = merged
	if name := asString(merged["username"]); name != "" {
		s.account.Username = name
	}
	s.account.Loading = false
	s.accountMu.Unlock()
	return nil
}

// InitNewCreation stamps the draft book and its first chapter with fresh
// ids and today's date, keeping any details already typed in. The new id
// joins the local creation list immediately; the documents only exist
// after UploadNewCreation.
func (s *Store) InitNewCreation() string {
	s.accountMu.Lock()
	defer s.accountMu.Unlock()

	today := model.Today()
	bookID := model.NewID()
	chapterID := model.NewID()

	s.account.NewCreation.BookID = bookID
	s.account.NewCreation.PublishDate = today
	s.account.NewCreation.LastUpdateDate = today
	s.account.NewCreation.ProgressStatus = model.ProgressOngoing

	s.account.NewCreationChapter.ChapterID = chapterID
	s.account.NewCreationChapter.BookID = bookID
	s.account.NewCreationChapter.ChapterNum = 1
	s.account.NewCreationChapter.PublishDate = today
	s.account.NewCreationChapter.LastUpdateDate = today

	s.account.CreationIDList = append(s.account.CreationIDList, bookID)
	return bookID
}

// SetNewCreationDetails merges the filled-in form fields into the draft.
func (s *Store) SetNewCreationDetails(details model.Book) {
	s.accountMu.Lock()
	defer s.accountMu.Unlock()

	draft := &s.account.NewCreation
	if details.Title != "" {
		draft.Title = details.Title
	}
	if details.Author != "" {
		draft.Author = details.Author
	}
	if details.Translator != "" {
		draft.Translator = details.Translator
	}
	if details.Series != "" {
		draft.Series = details.Series
	}
	if details.BookNum != "" {
		draft.BookNum = details.BookNum
	}
	if details.Type != "" {
		draft.Type = details.Type
	}
	if details.Cover != "" {
		draft.Cover = details.Cover
	}
	if details.Description != "" {
		draft.Description = details.Description
	}
	if details.GenreList != nil {
		draft.GenreList = details.GenreList
	}
	if details.Language != "" {
		draft.Language = details.Language
	}
	if details.ProgressStatus != "" {
		draft.ProgressStatus = details.ProgressStatus
	}
}

// SetNewCreationChapter resets the draft chapter to just the written
// text; InitNewCreation stamps ids and dates afterwards.
func (s *Store) SetNewCreationChapter(title, content string) {
	s.accountMu.Lock()
	s.account.NewCreationChapter = model.Chapter{
		ChapterTitle:   title,
		ChapterContent: content,
	}
	s.accountMu.Unlock()
}

// SetNewChapter stages a chapter draft for an existing creation.
func (s *Store) SetNewChapter(bookID string, chapterNum int, title, content string) {
	s.accountMu.Lock()
	s.account.NewCreationChapter = model.Chapter{
		BookID:         bookID,
		ChapterNum:     chapterNum,
		ChapterTitle:   title,
		ChapterContent: content,
	}
	s.accountMu.Unlock()
}

// InitNewChapter stamps the staged chapter draft with a fresh id and
// today's date.
func (s *Store) InitNewChapter() string {
	s.accountMu.Lock()
	defer s.accountMu.Unlock()

	today := model.Today()
	chapterID := model.NewID()
	s.account.NewCreationChapter.ChapterID = chapterID
	s.account.NewCreationChapter.PublishDate = today
	s.account.NewCreationChapter.LastUpdateDate = today
	return chapterID
}

func (s *Store) ClearNewCreation() {
	s.accountMu.Lock()
	s.account.NewCreation = model.Book{}
	s.account.NewCreationChapter = model.Chapter{}
	s.accountMu.Unlock()
}

func (s *Store) ClearNewCreationChapter() {
	s.accountMu.Lock()
	s.account.NewCreationChapter = model.Chapter{}
	s.accountMu.Unlock()
}

// UploadNewCreation writes the draft book and its first chapter under
// their pre-minted ids. The author's user document is not touched; the
// creation list only lives there for accounts migrated from older
// versions.
func (s *Store) UploadNewCreation(ctx context.Context) error {
	s.accountMu.Lock()
	draftBook := s.account.NewCreation
	draftChapter := s.account.NewCreationChapter
	s.account.Uploading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	bookDoc, err := model.ToDoc(&draftBook)
	if err == nil {
		err = s.gw.SetDoc(ctx, docstore.CollectionBooks, draftBook.BookID, bookDoc)
	}
	if err == nil {
		var chapterDoc docstore.Doc
		if chapterDoc, err = model.ToDoc(&draftChapter); err == nil {
			err = s.gw.SetDoc(ctx, docstore.CollectionChapters, draftChapter.ChapterID, chapterDoc)
		}
	}

	s.accountMu.Lock()
	s.account.Uploading = false
	if err != nil {
		s.account.Err = err.Error()
	}
	s.accountMu.Unlock()
	return err
}

// UploadNewChapter writes the staged chapter draft. The parent book's
// last-update date is deliberately left alone here; only editing an
// existing chapter bumps it.
func (s *Store) UploadNewChapter(ctx context.Context) error {
	s.accountMu.Lock()
	draft := s.account.NewCreationChapter
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	doc, err := model.ToDoc(&draft)
	if err == nil {
		err = s.gw.SetDoc(ctx, docstore.CollectionChapters, draft.ChapterID, doc)
	}

	s.accountMu.Lock()
	s.account.Loading = false
	if err != nil {
		s.account.Err = err.Error()
	}
	s.accountMu.Unlock()
	return err
}

// UpdateChapterContent rewrites a chapter's title and text, bumping the
// last-update date on both the chapter and its parent book.
func (s *Store) UpdateChapterContent(ctx context.Context, chapterID, bookID, title, content string) error {
	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	today := model.Today()
	err := s.gw.UpdateDoc(ctx, docstore.CollectionChapters, chapterID, docstore.Doc{
		"chapterTitle":   title,
		"chapterContent": content,
		"lastUpdateDate": today,
	})
	if err == nil {
		err = s.gw.UpdateDoc(ctx, docstore.CollectionBooks, bookID, docstore.Doc{
			"lastUpdateDate": today,
		})
	}

	s.accountMu.Lock()
	s.account.Loading = false
	if err != nil {
		s.account.Err = err.Error()
	}
	s.accountMu.Unlock()
	return err
}

// UpdateCreationField edits a single whitelisted field on a published
// creation. The series field travels as a [series, bookNum] pair. An
// unknown field name is a no-op.
func (s *Store) UpdateCreationField(ctx context.Context, bookID, field string, value any) error {
	fields := docstore.Doc{"lastUpdateDate": model.Today()}

	switch field {
	case "title", "cover", "description", "language", "translator", "progressStatus", "genreList":
		fields[field] = value
	case "series":
		pair, ok := value.([]string)
		if !ok || len(pair) < 2 {
			log.Warn("Series update needs a [series, bookNum] pair", zap.String("bookId", bookID))
			return nil
		}
		fields["series"] = pair[0]
		fields["bookNum"] = pair[1]
	default:
		log.Warn("Ignoring update for unknown creation field", zap.String("field", field))
		return nil
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	err := s.gw.UpdateDoc(ctx, docstore.CollectionBooks, bookID, fields)

	s.accountMu.Lock()
	s.account.Loading = false
	if err != nil {
		s.account.Err = err.Error()
	}
	s.accountMu.Unlock()
	return err
}

// DeleteBookAndChapters removes a creation and every chapter under it.
func (s *Store) DeleteBookAndChapters(ctx context.Context, bookID string) error {
	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	err := s.gw.DeleteDoc(ctx, docstore.CollectionBooks, bookID)
	if err == nil {
		var docs []docstore.Doc
		if docs, err = s.gw.QueryByField(ctx, docstore.CollectionChapters, "bookId", bookID); err == nil {
			for _, doc := range docs {
				if err = s.gw.DeleteDoc(ctx, docstore.CollectionChapters, asString(doc["id"])); err != nil {
					break
				}
			}
		}
	}

	s.accountMu.Lock()
	s.account.Loading = false
	if err != nil {
		s.account.Err = err.Error()
	} else {
		s.account.SelectedCreation = nil
	}
	s.accountMu.Unlock()
	return err
}

func (s *Store) DeleteChapter(ctx context.Context, chapterID string) error {
	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	err := s.gw.DeleteDoc(ctx, docstore.CollectionChapters, chapterID)

	s.accountMu.Lock()
	s.account.Loading = false
	if err != nil {
		s.account.Err = err.Error()
	}
	s.accountMu.Unlock()
	return err
}

// FetchAccountCreations resolves the author's creation id list into
// books. An empty list is rejected before any read.
func (s *Store) FetchAccountCreations(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		err := errors.New("Invalid book IDs array")
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	docs, err := s.gw.BatchGetByIDs(ctx, docstore.CollectionBooks, ids)
	if err == nil {
		var books []model.Book
		if books, err = decodeBooks(docs); err == nil {
			s.accountMu.Lock()
			s.account.CreationList = books
			s.account.Loading = false
			s.accountMu.Unlock()
			return nil
		}
	}

	s.accountMu.Lock()
	s.account.Loading = false
	s.account.Err = err.Error()
	s.accountMu.Unlock()
	return err
}

// FetchCreationByID selects one of the author's books by its bookId
// field. No match quietly clears the selection.
func (s *Store) FetchCreationByID(ctx context.Context, bookID string) error {
	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	docs, err := s.gw.QueryByField(ctx, docstore.CollectionBooks, "bookId", bookID)
	if err == nil {
		var selected *model.Book
		if len(docs) == 0 {
			log.Warn("No book found with that bookId", zap.String("bookId", bookID))
		} else {
			var book model.Book
			if book, err = decodeBook(docs[0]); err == nil {
				selected = &book
			}
		}
		if err == nil {
			s.accountMu.Lock()
			s.account.SelectedCreation = selected
			s.account.Loading = false
			s.accountMu.Unlock()
			return nil
		}
	}

	s.accountMu.Lock()
	s.account.Loading = false
	s.account.Err = err.Error()
	s.accountMu.Unlock()
	return err
}

func (s *Store) FetchChaptersOfSelectedCreation(ctx context.Context, bookID string) error {
	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	docs, err := s.gw.QueryByField(ctx, docstore.CollectionChapters, "bookId", bookID)
	if err == nil {
		var chapters []model.Chapter
		if chapters, err = decodeChapters(docs); err == nil {
			sortChaptersAsc(chapters)
			s.accountMu.Lock()
			s.account.ChaptersOfSelectedCreation = chapters
			s.account.Loading = false
			s.accountMu.Unlock()
			return nil
		}
	}

	s.accountMu.Lock()
	s.account.Loading = false
	s.account.Err = err.Error()
	s.accountMu.Unlock()
	return err
}

// AddBookToLibrary links a book into the user document's library list.
// The local list only changes once the remote write succeeds, and adding
// an already-present book is a no-op on both sides.
func (s *Store) AddBookToLibrary(ctx context.Context, bookID string) error {
	if bookID == "" {
		return nil
	}

	s.accountMu.RLock()
	isLogin := s.account.IsLogin
	s.accountMu.RUnlock()
	if !isLogin {
		err := errors.New("You need to login")
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	userID := s.currentUserID()
	err := s.gw.UpdateDoc(ctx, docstore.CollectionUsers, userID, docstore.Doc{
		"libraryBookIdList": docstore.ArrayUnion(bookID),
	})
	if err != nil {
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	present := false
	for _, id := range s.account.LibraryBookIDList {
		if id == bookID {
			present = true
			break
		}
	}
	if !present {
		s.account.LibraryBookIDList = append(s.account.LibraryBookIDList, bookID)
	}
	s.accountMu.Unlock()
	return nil
}

func (s *Store) RemoveBookFromLibrary(ctx context.Context, bookID string) error {
	if bookID == "" {
		return nil
	}

	s.accountMu.RLock()
	isLogin := s.account.IsLogin
	s.accountMu.RUnlock()
	if !isLogin {
		err := errors.New("You need to login")
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	userID := s.currentUserID()
	err := s.gw.UpdateDoc(ctx, docstore.CollectionUsers, userID, docstore.Doc{
		"libraryBookIdList": docstore.ArrayRemove(bookID),
	})
	if err != nil {
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	// filter into a fresh slice; snapshots returned earlier share the old
	// backing array and must keep reading their ids unchanged
	kept := make([]string, 0, len(s.account.LibraryBookIDList))
	for _, id := range s.account.LibraryBookIDList {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	s.account.LibraryBookIDList = kept
	s.accountMu.Unlock()
	return nil
}

// FetchLibraryBooks resolves the library id list into books.
func (s *Store) FetchLibraryBooks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		err := errors.New("Invalid book IDs array")
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
		return err
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	docs, err := s.gw.BatchGetByIDs(ctx, docstore.CollectionBooks, ids)
	if err == nil {
		var books []model.Book
		if books, err = decodeBooks(docs); err == nil {
			s.accountMu.Lock()
			s.account.LibraryBookList = books
			s.account.Loading = false
			s.accountMu.Unlock()
			return nil
		}
	}

	s.accountMu.Lock()
	s.account.Loading = false
	s.account.Err = err.Error()
	s.accountMu.Unlock()
	return err
}

// SetCurrentPosition records the reading position locally first, then
// mirrors it onto the user document. A failed remote write keeps the
// local position so reading continues uninterrupted.
func (s *Store) SetCurrentPosition(ctx context.Context, bookID string, chapterNum int) error {
	s.accountMu.Lock()
	s.account.CurrentBookID = bookID
	s.account.CurrentChapterNum = chapterNum
	s.accountMu.Unlock()

	userID := s.currentUserID()
	err := s.gw.UpdateDoc(ctx, docstore.CollectionUsers, userID, docstore.Doc{
		"currentBookId":         bookID,
		"currentBookChapterNum": chapterNum,
	})
	if err != nil {
		s.accountMu.Lock()
		s.account.Err = err.Error()
		s.accountMu.Unlock()
	}
	return err
}

// FetchCurrentBook loads the book at the stored reading position. The
// fetch is skipped when the cached book already matches, so flipping back
// to the reader costs nothing.
func (s *Store) FetchCurrentBook(ctx context.Context) error {
	s.accountMu.RLock()
	bookID := s.account.CurrentBookID
	cached := s.account.CurrentBook
	s.accountMu.RUnlock()

	if bookID == "" {
		return nil
	}
	if cached != nil && cached.BookID == bookID {
		return nil
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	doc, err := s.gw.GetByID(ctx, docstore.CollectionBooks, bookID)
	if errors.Is(err, gateway.ErrNotFound) {
		log.Warn("Current book no longer exists", zap.String("bookId", bookID))
		s.accountMu.Lock()
		s.account.CurrentBook = nil
		s.account.Loading = false
		s.accountMu.Unlock()
		return nil
	}
	if err == nil {
		doc["bookId"] = bookID
		var book model.Book
		if book, err = decodeBook(doc); err == nil {
			s.accountMu.Lock()
			s.account.CurrentBook = &book
			s.account.Loading = false
			s.accountMu.Unlock()
			return nil
		}
	}

	s.accountMu.Lock()
	s.account.Loading = false
	s.account.Err = err.Error()
	s.accountMu.Unlock()
	return err
}

// FetchChaptersOfCurrentBook loads the reader's chapter list, skipping
// the fetch when the cached chapters already belong to the current book.
func (s *Store) FetchChaptersOfCurrentBook(ctx context.Context) error {
	s.accountMu.RLock()
	bookID := s.account.CurrentBookID
	cached := s.account.ChaptersOfCurrentBook
	s.accountMu.RUnlock()

	if bookID == "" {
		return nil
	}
	if len(cached) > 0 && cached[0].BookID == bookID {
		return nil
	}

	s.accountMu.Lock()
	s.account.Loading = true
	s.account.Err = ""
	s.accountMu.Unlock()

	docs, err := s.gw.QueryByField(ctx, docstore.CollectionChapters, "bookId", bookID)
	if err == nil {
		var chapters []model.Chapter
		if chapters, err = decodeChapters(docs); err == nil {
			sortChaptersAsc(chapters)
			s.accountMu.Lock()
			s.account.ChaptersOfCurrentBook = chapters
			s.account.Loading = false
			s.accountMu.Unlock()
			return nil
		}
	}

	s.accountMu.Lock()
	s.account.Loading = false
	s.account.Err = err.Error()
	s.accountMu.Unlock()
	return err
}
