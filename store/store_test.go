package store

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truyenhub/truyenhub/api"
	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/gateway"
	"github.com/truyenhub/truyenhub/session"
	"github.com/truyenhub/truyenhub/testutil"
	"github.com/truyenhub/truyenhub/worker"
)

func newTestStore(t *testing.T) (*Store, *docstore.SQLite, *testutil.FakeAccounts) {
	t.Helper()

	db, err := docstore.Open(filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fake := testutil.NewFakeAccounts()
	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)

	storage, err := session.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	gw := gateway.New(db, worker.NewPool(4), 10)
	return New(gw, api.NewClient(srv.URL), session.New(storage)), db, fake
}

func seedDoc(t *testing.T, db *docstore.SQLite, collection, id string, doc docstore.Doc) {
	t.Helper()
	require.NoError(t, db.Set(context.Background(), collection, id, doc))
}

func seedBook(t *testing.T, db *docstore.SQLite, id string, doc docstore.Doc) {
	t.Helper()
	if doc == nil {
		doc = docstore.Doc{}
	}
	doc["bookId"] = id
	seedDoc(t, db, docstore.CollectionBooks, id, doc)
}

// loginAs signs the store in through the fake service and mirrors the
// profile into a user document so document-side updates have a target.
func loginAs(t *testing.T, s *Store, db *docstore.SQLite, fake *testutil.FakeAccounts) string {
	t.Helper()

	fake.Seed("an@example.com", "secret", "an", nil)
	require.NoError(t, s.Login(context.Background(), "an@example.com", "secret"))

	userID := s.Account().UserID
	require.NotEmpty(t, userID)
	seedDoc(t, db, docstore.CollectionUsers, userID, docstore.Doc(s.Account().User))
	return userID
}
