package content

import "context"

// Store is the gateway to the remote document database. Every call is one
// round trip; implementations do not retry or batch.
type Store interface {
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	DeleteDocument(ctx context.Context, doc Document) error
	InsertDocument(ctx context.Context, collection string, record Record) (Document, error)
	PutNamedDocument(ctx context.Context, path string, record Record) error
}
