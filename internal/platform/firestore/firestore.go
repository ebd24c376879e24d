package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
)

// Client wraps the Firestore client to allow future extensions.
type Client struct {
	*firestore.Client
}

// Open creates a new Firestore client. An empty projectID enables
// auto-detection from the environment; credentials come from
// Application Default Credentials.
func Open(ctx context.Context, projectID string) (*Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	c, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &Client{Client: c}, nil
}
