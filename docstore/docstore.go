// Package docstore is the contract against the document database backing
// the app: flat collections of JSON documents keyed by an opaque id. The
// hosted backend and the embedded sqlite store both satisfy Store.
package docstore

import (
	"context"

	"github.com/pkg/errors"
)

const (
	CollectionBooks    = "Books"
	CollectionChapters = "Chapters"
	CollectionUsers    = "Users"
	CollectionGenre    = "Genre"
	CollectionReviews  = "Reviews"
)

var ErrNotFound = errors.New("document not found")

// Doc is a raw document. Reads merge the document id under "id" unless
// the data itself carries one.
type Doc map[string]any

type Filter struct {
	Field string
	Op    string
	Value any
}

// Eq matches documents whose field equals value exactly.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: "==", Value: value}
}

// ArrayContains matches documents whose array field has value as a member.
func ArrayContains(field string, value any) Filter {
	return Filter{Field: field, Op: "array-contains", Value: value}
}

// Union is an update value performing a set union on a string-array field.
type Union struct {
	Values []string
}

// Removal is an update value performing a set difference on a string-array field.
type Removal struct {
	Values []string
}

func ArrayUnion(values ...string) Union {
	return Union{Values: values}
}

func ArrayRemove(values ...string) Removal {
	return Removal{Values: values}
}

type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Doc, error)
	// Query returns every document matching all filters (logical AND).
	Query(ctx context.Context, collection string, filters ...Filter) ([]Doc, error)
	// Set writes the full document under a caller-chosen id.
	Set(ctx context.Context, collection, id string, doc Doc) error
	// Add writes the document under a store-minted id and returns it.
	Add(ctx context.Context, collection string, doc Doc) (string, error)
	// Update merges the given fields into an existing document.
	// Union/Removal values mutate array fields in place.
	Update(ctx context.Context, collection, id string, fields Doc) error
	// Delete removes the document; deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error
}
