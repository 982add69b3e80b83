package seed

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// Orchestrator drives the uploader over every known collection, one at a
// time, then writes the singleton documents.
type Orchestrator struct {
	uploader *Uploader
	logger   logger.Logger
}

func NewOrchestrator(uploader *Uploader, log logger.Logger) *Orchestrator {
	return &Orchestrator{uploader: uploader, logger: log}
}

// UploadAllData returns one result per collection in traversal order, followed
// by one result per singleton document present in the seed.
func (o *Orchestrator) UploadAllData(ctx context.Context, s *Seed, clearFirst bool) []content.UploadResult {
	ctx, span := tracer.Start(ctx, "UploadAllData", trace.WithAttributes(attribute.Bool("clear_first", clearFirst)))
	defer span.End()

	o.logger.Info("Starting full upload", zap.Bool("clear_first", clearFirst), zap.Int("collections", len(content.Collections)))

	o.uploader.progress.reset()
	for _, name := range content.Collections {
		o.uploader.progress.register(content.UploadProgress{
			Collection: name,
			Total:      len(s.Records(name)),
			Status:     content.StatusPending,
		})
	}
	o.uploader.progress.flush()

	results := make([]content.UploadResult, 0, len(content.Collections)+2)
	for _, name := range content.Collections {
		records := s.Records(name)
		if records == nil {
			records = []content.Record{}
		}
		results = append(results, o.uploader.UploadCollection(ctx, name, records, clearFirst))
	}

	if s != nil && s.PersonalInfo != nil {
		results = append(results, o.writeSingleton(ctx, content.PathPersonalInfo, s.PersonalInfo))
	}
	if s != nil && s.Analytics != nil {
		results = append(results, o.writeSingleton(ctx, content.PathAnalytics, s.Analytics))
	}

	success, failed := Totals(results)
	span.SetAttributes(attribute.Int("success", success), attribute.Int("errors", failed))
	o.logger.Info("Full upload finished", zap.Int("success", success), zap.Int("errors", failed))
	return results
}

// UploadOne uploads a single named collection from the seed.
func (o *Orchestrator) UploadOne(ctx context.Context, s *Seed, name string, clearFirst bool) (content.UploadResult, error) {
	if !content.IsKnownCollection(name) {
		return content.UploadResult{}, apperror.NewInvalidInput(fmt.Sprintf("unknown collection %q", name), nil)
	}
	records := s.Records(name)
	if records == nil {
		records = []content.Record{}
	}
	return o.uploader.UploadCollection(ctx, name, records, clearFirst), nil
}

// writeSingleton is guarded on its own; a failure never stops the run.
func (o *Orchestrator) writeSingleton(ctx context.Context, path string, record content.Record) (result content.UploadResult) {
	result = content.UploadResult{Collection: path, Total: 1, Details: make([]string, 0, 1)}
	_, id, _ := content.SplitPath(path)

	fail := func(err error) {
		werr := &content.SingletonWriteError{Path: path, Err: err}
		o.logger.Error("Failed to write singleton document", werr, zap.String("path", path))
		result.Success = 0
		result.Errors = 1
		result.Details = append(result.Details[:0], fmt.Sprintf("❌ %s: %s", id, apperror.Summary(err)))
	}
	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("panic: %v", r))
		}
	}()

	if err := o.uploader.store.PutNamedDocument(ctx, path, record.WithDefaults(o.uploader.now())); err != nil {
		fail(err)
		return result
	}

	o.logger.Info("Singleton document written", zap.String("path", path))
	result.Success = 1
	result.Details = append(result.Details, fmt.Sprintf("✅ %s (%s)", id, path))
	return result
}
