package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

var tracer = otel.Tracer("content_usecase")

// ContentUseCase serves the public read side and the admin editor. Unlike the
// bulk upload, admin writes are validated against the collection schema.
type ContentUseCase struct {
	store  content.Store
	logger logger.Logger
	now    func() time.Time
}

func NewContentUseCase(store content.Store, log logger.Logger) *ContentUseCase {
	return &ContentUseCase{store: store, logger: log, now: time.Now}
}

func (uc *ContentUseCase) List(ctx context.Context, collection string) ([]content.Document, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()
	span.SetAttributes(attribute.String("collection", collection))

	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := uc.store.ListDocuments(ctx, collection)
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to list "+collection)
	}
	return docs, nil
}

func (uc *ContentUseCase) Get(ctx context.Context, collection, id string) (content.Document, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()

	if err := checkCollection(collection); err != nil {
		return content.Document{}, err
	}
	doc, err := uc.store.GetDocument(ctx, collection, id)
	if err != nil {
		span.RecordError(err)
		return content.Document{}, storeError(err, "failed to get "+collection+"/"+id)
	}
	return doc, nil
}

func (uc *ContentUseCase) GetPersonalInfo(ctx context.Context) (content.Document, error) {
	collection, id, _ := content.SplitPath(content.PathPersonalInfo)
	doc, err := uc.store.GetDocument(ctx, collection, id)
	if err != nil {
		return content.Document{}, storeError(err, "failed to get personal info")
	}
	return doc, nil
}

func (uc *ContentUseCase) Create(ctx context.Context, collection string, record content.Record) (content.Document, error) {
	ctx, span := tracer.Start(ctx, "Create")
	defer span.End()

	if err := checkCollection(collection); err != nil {
		return content.Document{}, err
	}
	if err := content.Validate(collection, record); err != nil {
		return content.Document{}, apperror.NewInvalidInput(collection+" record is invalid", err)
	}

	clean := record.Clone()
	delete(clean, content.FieldCreatedAt)
	delete(clean, content.FieldUpdatedAt)
	delete(clean, content.FieldVersion)

	doc, err := uc.store.InsertDocument(ctx, collection, clean.WithDefaults(uc.now()))
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to create document", err, zap.String("collection", collection))
		return content.Document{}, storeError(err, "failed to create "+collection)
	}
	uc.logger.Info("Document created", zap.String("collection", collection), zap.String("id", doc.ID))
	return doc, nil
}

// Update replaces the record, keeping createdAt, stamping updatedAt and
// bumping version.
func (uc *ContentUseCase) Update(ctx context.Context, collection, id string, record content.Record) (content.Document, error) {
	ctx, span := tracer.Start(ctx, "Update")
	defer span.End()

	if err := checkCollection(collection); err != nil {
		return content.Document{}, err
	}
	return uc.replace(ctx, collection, id, record)
}

func (uc *ContentUseCase) UpdatePersonalInfo(ctx context.Context, record content.Record) (content.Document, error) {
	collection, id, _ := content.SplitPath(content.PathPersonalInfo)
	return uc.replace(ctx, collection, id, record)
}

func (uc *ContentUseCase) Delete(ctx context.Context, collection, id string) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	if err := checkCollection(collection); err != nil {
		return err
	}
	err := uc.store.DeleteDocument(ctx, content.Document{Collection: collection, ID: id})
	if err != nil {
		span.RecordError(err)
		return storeError(err, "failed to delete "+collection+"/"+id)
	}
	uc.logger.Info("Document deleted", zap.String("collection", collection), zap.String("id", id))
	return nil
}

func (uc *ContentUseCase) replace(ctx context.Context, collection, id string, record content.Record) (content.Document, error) {
	if err := content.Validate(collection, record); err != nil {
		return content.Document{}, apperror.NewInvalidInput(collection+" record is invalid", err)
	}

	existing, err := uc.store.GetDocument(ctx, collection, id)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return content.Document{}, storeError(err, "failed to load "+collection+"/"+id)
	}
	notFound := err != nil
	if notFound && collection != content.CollectionSettings {
		return content.Document{}, apperror.NewNotFound(collection, id)
	}

	next := record.Clone()
	next[content.FieldUpdatedAt] = uc.now().UnixMilli()
	if notFound {
		next[content.FieldVersion] = 1
		next[content.FieldCreatedAt] = next[content.FieldUpdatedAt]
	} else {
		next[content.FieldVersion] = existing.Data.Version() + 1
		if created, ok := existing.Data[content.FieldCreatedAt]; ok {
			next[content.FieldCreatedAt] = created
		} else {
			next[content.FieldCreatedAt] = next[content.FieldUpdatedAt]
		}
	}

	path := collection + "/" + id
	if err := uc.store.PutNamedDocument(ctx, path, next); err != nil {
		uc.logger.Error("Failed to update document", err, zap.String("path", path))
		return content.Document{}, storeError(err, "failed to update "+path)
	}
	uc.logger.Info("Document updated", zap.String("path", path), zap.Any("version", next[content.FieldVersion]))
	return content.Document{Collection: collection, ID: id, Data: next}, nil
}

func checkCollection(collection string) error {
	if !content.IsKnownCollection(collection) {
		return apperror.NewNotFound("collection", collection)
	}
	return nil
}

// storeError passes application errors through and wraps the rest.
func storeError(err error, details string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewUnavailable(details, fmt.Errorf("record store: %w", err))
}
