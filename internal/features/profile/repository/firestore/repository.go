package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"userprofile-backend/internal/features/profile/repository"
	platform "userprofile-backend/internal/platform/firestore"
)

const collectionName = "UserProfile"

// Repository implements repository.ProfileRepository on top of a
// Firestore collection with store-assigned document ids.
type Repository struct {
	client *platform.Client
}

func NewRepository(client *platform.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName)
}

func (r *Repository) AddDocument(ctx context.Context, fields map[string]interface{}) (string, error) {
	ref, _, err := r.collection().Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}
	return ref.ID, nil
}

func (r *Repository) GetDocument(ctx context.Context, id string) (*repository.Document, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return &repository.Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (r *Repository) UpdateDocument(ctx context.Context, id string, fields map[string]interface{}) error {
	// MergeAll leaves fields absent from the map untouched, so an update
	// of username and email never rewrites the stored ciphertext.
	if _, err := r.collection().Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("update document %s: %w", id, err)
	}
	return nil
}

func (r *Repository) DeleteDocument(ctx context.Context, id string) error {
	if _, err := r.collection().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

func (r *Repository) QueryEqual(ctx context.Context, field, value string) ([]repository.Document, error) {
	snaps, err := r.collection().Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", field, err)
	}
	return materialize(snaps), nil
}

func (r *Repository) ListAll(ctx context.Context) ([]repository.Document, error) {
	snaps, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return materialize(snaps), nil
}

func materialize(snaps []*firestore.DocumentSnapshot) []repository.Document {
	docs := make([]repository.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, repository.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs
}
