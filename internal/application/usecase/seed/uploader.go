package seed

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

var tracer = otel.Tracer("seed_usecase")

// Uploader writes one collection at a time. Records are inserted strictly in
// input order; only the clear phase runs concurrently.
type Uploader struct {
	store    content.Store
	progress *progressTracker
	logger   logger.Logger
	now      func() time.Time
}

func NewUploader(store content.Store, onProgress ProgressFunc, log logger.Logger) (*Uploader, error) {
	if store == nil {
		return nil, content.ErrStoreNotInitialized
	}
	return &Uploader{
		store:    store,
		progress: newProgressTracker(onProgress),
		logger:   log,
		now:      time.Now,
	}, nil
}

// UploadCollection never returns an error: per-record failures are counted and
// a collection-level failure is reported through the result and progress.
func (u *Uploader) UploadCollection(ctx context.Context, name string, records []content.Record, clearFirst bool) (result content.UploadResult) {
	ctx, span := tracer.Start(ctx, "UploadCollection", trace.WithAttributes(
		attribute.String("collection", name),
		attribute.Int("records", len(records)),
		attribute.Bool("clear_first", clearFirst),
	))
	defer span.End()

	log := u.logger.With(zap.String("collection", name))
	result = content.UploadResult{
		Collection: name,
		Total:      len(records),
		Details:    make([]string, 0, len(records)+1),
	}

	defer func() {
		if r := recover(); r != nil {
			err := &content.CollectionAbortError{Collection: name, Err: fmt.Errorf("panic: %v", r)}
			u.abort(&result, err, log, span)
		}
	}()

	if clearFirst {
		n, err := u.clearCollection(ctx, name)
		if err != nil {
			u.abort(&result, &content.CollectionAbortError{Collection: name, Err: err}, log, span)
			return result
		}
		result.Details = append(result.Details, fmt.Sprintf("🗑️ Cleared %d existing documents from %s", n, name))
		log.Info("Cleared collection", zap.Int("deleted", n))
	}

	for i, record := range records {
		label := record.Label(i)

		doc, err := u.insertOne(ctx, name, record)
		if err != nil {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("❌ %s: %s", label, apperror.Summary(err)))
			log.Warn("Failed to insert record", zap.Int("index", i), zap.String("label", label), zap.Error(err))
		} else {
			result.Success++
			result.Details = append(result.Details, fmt.Sprintf("✅ %s (%s)", label, doc.ID))
		}

		u.progress.update(content.UploadProgress{
			Collection: name,
			Current:    i + 1,
			Total:      len(records),
			Status:     content.StatusUploading,
		})
	}

	final := content.UploadProgress{Collection: name, Current: len(records), Total: len(records), Status: content.StatusCompleted}
	if result.Errors > 0 {
		final.Status = content.StatusError
		final.Error = fmt.Sprintf("%d of %d records failed", result.Errors, result.Total)
		span.SetStatus(codes.Error, final.Error)
	}
	u.progress.update(final)

	span.SetAttributes(attribute.Int("success", result.Success), attribute.Int("errors", result.Errors))
	log.Info("Collection upload finished",
		zap.Int("success", result.Success),
		zap.Int("errors", result.Errors),
		zap.Int("total", result.Total),
	)
	return result
}

// insertOne is the per-record guard: store errors and panics both become a
// StoreWriteError for that record only.
func (u *Uploader) insertOne(ctx context.Context, name string, record content.Record) (doc content.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &content.StoreWriteError{Op: "insert", Collection: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	doc, err = u.store.InsertDocument(ctx, name, record.WithDefaults(u.now()))
	if err != nil {
		return content.Document{}, &content.StoreWriteError{Op: "insert", Collection: name, Err: err}
	}
	return doc, nil
}

// clearCollection deletes every existing document concurrently and waits for
// all of them. The first failure is returned; the other deletes still run.
func (u *Uploader) clearCollection(ctx context.Context, name string) (int, error) {
	docs, err := u.store.ListDocuments(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", name, err)
	}

	var g errgroup.Group
	for _, doc := range docs {
		g.Go(func() error {
			if err := u.store.DeleteDocument(ctx, doc); err != nil {
				return &content.StoreWriteError{Op: "delete", Collection: name, ID: doc.ID, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (u *Uploader) abort(result *content.UploadResult, err *content.CollectionAbortError, log logger.Logger, span trace.Span) {
	msg := apperror.Summary(err.Err)
	result.Details = append(result.Details, content.AbortPrefix+msg)

	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	log.Error("Collection upload failed", err)

	// abort may run inside a recover; a panicking sink must not escape here.
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Progress sink panicked during abort", zap.Any("panic", r))
		}
	}()
	u.progress.update(content.UploadProgress{
		Collection: result.Collection,
		Current:    result.Success + result.Errors,
		Total:      result.Total,
		Status:     content.StatusError,
		Error:      msg,
	})
}
