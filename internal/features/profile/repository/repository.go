package repository

import (
	"context"
	"errors"
)

// Field names of a stored UserProfile document.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldSSN      = "socialSecurityNumber"
)

// ErrDocumentNotFound is returned by GetDocument when no document exists
// under the given id. Transport and store failures are returned as-is.
var ErrDocumentNotFound = errors.New("document not found")

// Document is a materialized datastore document.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// GetString returns the named field as a string, or "" when absent or of
// another type.
func (d Document) GetString(field string) string {
	s, _ := d.Fields[field].(string)
	return s
}

// ProfileRepository translates CRUD and query operations into document
// operations against the remote datastore. Every call blocks until the
// store responds.
type ProfileRepository interface {
	// AddDocument stores a new document and returns its store-assigned id.
	AddDocument(ctx context.Context, fields map[string]interface{}) (string, error)
	// GetDocument returns the document under id, or ErrDocumentNotFound.
	GetDocument(ctx context.Context, id string) (*Document, error)
	// UpdateDocument merges the given fields into an existing document.
	UpdateDocument(ctx context.Context, id string, fields map[string]interface{}) error
	// DeleteDocument removes the document under id.
	DeleteDocument(ctx context.Context, id string) error
	// QueryEqual returns all documents whose field equals value.
	QueryEqual(ctx context.Context, field, value string) ([]Document, error)
	// ListAll returns every document in the collection.
	ListAll(ctx context.Context) ([]Document, error)
}
