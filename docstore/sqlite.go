package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/truyenhub/truyenhub/log"
)

// SQLite is the embedded document store: one table, one JSON blob per
// document. Collections are session-scale, so filters are evaluated in Go
// after a per-collection scan.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	)`

func Open(dsn string) (*SQLite, error) {
	if dsn == "" {
		return nil, errors.New("Database URL is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create documents table")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Doc, error) {
	stmt := `SELECT data FROM documents WHERE collection = ? AND id = ?`

	var raw string
	if err := s.db.QueryRowContext(ctx, stmt, collection, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(id, raw)
}

func (s *SQLite) Query(ctx context.Context, collection string, filters ...Filter) ([]Doc, error) {
	stmt := `SELECT id, data FROM documents WHERE collection = ?`

	rows, err := s.db.QueryContext(ctx, stmt, collection)
	if err != nil {
		log.Error("Failed to query documents", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]Doc, 0)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			log.Error("Failed to scan document", zap.Error(err))
			return nil, err
		}
		doc, err := decodeDoc(id, raw)
		if err != nil {
			return nil, err
		}
		if matchFilters(doc, filters) {
			list = append(list, doc)
		}
	}
	return list, rows.Err()
}

func (s *SQLite) Set(ctx context.Context, collection, id string, doc Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, collection, id, doc)
}

// write assumes s.mu is held.
func (s *SQLite) write(ctx context.Context, collection, id string, doc Doc) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to encode document")
	}

	stmt := `INSERT INTO documents (collection, id, data) VALUES (?,?,?)
		ON CONFLICT(collection, id) DO UPDATE SET data = EXCLUDED.data`

	if _, err := s.db.ExecContext(ctx, stmt, collection, id, string(raw)); err != nil {
		log.Error("Failed to write document", zap.Error(err))
		return err
	}
	return nil
}

func (s *SQLite) Add(ctx context.Context, collection string, doc Doc) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Update merges under the store lock so two in-flight updates to the
// same document never lose each other's writes.
func (s *SQLite) Update(ctx context.Context, collection, id string, fields Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}

	for key, value := range fields {
		switch op := value.(type) {
		case Union:
			existing[key] = unionStrings(existing[key], op.Values)
		case Removal:
			existing[key] = removeStrings(existing[key], op.Values)
		default:
			existing[key] = value
		}
	}
	return s.write(ctx, collection, id, existing)
}

func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	stmt := `DELETE FROM documents WHERE collection = ? AND id = ?`

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, stmt, collection, id); err != nil {
		log.Error("Failed to delete document", zap.Error(err))
		return err
	}
	return nil
}

func decodeDoc(id, raw string) (Doc, error) {
	doc := make(Doc)
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to decode document %s", id)
	}
	// The data's own id field wins over the document key.
	if _, ok := doc["id"]; !ok {
		doc["id"] = id
	}
	return doc, nil
}

func matchFilters(doc Doc, filters []Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case "==":
			if !looseEqual(doc[f.Field], f.Value) {
				return false
			}
		case "array-contains":
			if !arrayContains(doc[f.Field], f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// looseEqual compares across the numeric type drift a JSON round-trip
// introduces (int vs float64).
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func arrayContains(field, value any) bool {
	switch arr := field.(type) {
	case []any:
		for _, item := range arr {
			if looseEqual(item, value) {
				return true
			}
		}
	case []string:
		for _, item := range arr {
			if looseEqual(item, value) {
				return true
			}
		}
	}
	return false
}

func unionStrings(existing any, values []string) []string {
	out := asStringSlice(existing)
	for _, v := range values {
		present := false
		for _, cur := range out {
			if cur == v {
				present = true
				break
			}
		}
		if !present {
			out = append(out, v)
		}
	}
	return out
}

func removeStrings(existing any, values []string) []string {
	out := make([]string, 0)
	for _, cur := range asStringSlice(existing) {
		drop := false
		for _, v := range values {
			if cur == v {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, cur)
		}
	}
	return out
}

func asStringSlice(v any) []string {
	switch arr := v.(type) {
	case []string:
		return append([]string(nil), arr...)
	case []any:
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return []string{}
}
