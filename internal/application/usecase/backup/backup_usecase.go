package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const backupFolder = "backups/content"

var tracer = otel.Tracer("backup_usecase")

// Snapshot is the backup file, written in the seed file layout. Records keep
// their store id under "id"; the seed loader drops it and the takenAt stamp,
// so a snapshot uploads like any seed file.
type Snapshot struct {
	TakenAt      time.Time
	Collections  map[string][]content.Record
	PersonalInfo content.Record
	Analytics    content.Record
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Collections)+3)
	for name, records := range s.Collections {
		out[name] = records
	}
	if s.PersonalInfo != nil {
		out["personalInfo"] = s.PersonalInfo
	}
	if s.Analytics != nil {
		out["analytics"] = s.Analytics
	}
	out["takenAt"] = s.TakenAt
	return json.Marshal(out)
}

type BackupOutput struct {
	URL       string
	PublicID  string
	Documents int
}

type BackupUseCase struct {
	store   content.Store
	storage service.ArchiveStorage
	logger  logger.Logger
	now     func() time.Time
}

func NewBackupUseCase(store content.Store, storage service.ArchiveStorage, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		store:   store,
		storage: storage,
		logger:  log,
		now:     time.Now,
	}
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*BackupOutput, error) {
	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	uc.logger.Info("Starting content backup...")

	snap, count, err := uc.collect(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode backup", err)
	}

	timestamp := snap.TakenAt.Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("backup-%s.json", timestamp)
	publicID := fmt.Sprintf("%s/%s", backupFolder, filename)

	uploadURL, err := uc.storage.Upload(ctx, bytes.NewReader(payload), backupFolder, publicID)
	if err != nil {
		uc.logger.Error("Failed to upload backup to Cloudinary", err)
		span.RecordError(err)
		return nil, apperror.NewUnavailable("backup storage rejected the snapshot", err)
	}

	// A snapshot that is not recorded as the latest backup is removed again.
	manifest := content.Record{
		"publicId":  publicID,
		"url":       uploadURL,
		"documents": count,
		"takenAt":   snap.TakenAt.UnixMilli(),
	}
	if err := uc.store.PutNamedDocument(ctx, content.PathLastBackup, manifest); err != nil {
		uc.logger.Error("Failed to record backup, removing uploaded snapshot", err, zap.String("public_id", publicID))
		span.RecordError(err)
		if derr := uc.storage.Delete(ctx, publicID); derr != nil {
			uc.logger.Error("Failed to remove unrecorded snapshot", derr, zap.String("public_id", publicID))
		}
		return nil, apperror.NewUnavailable("cannot record backup", err)
	}

	span.SetAttributes(attribute.Int("documents", count))
	uc.logger.Info("Content backup completed and uploaded successfully",
		zap.String("url", uploadURL),
		zap.String("public_id", publicID),
		zap.Int("documents", count),
	)
	return &BackupOutput{URL: uploadURL, PublicID: publicID, Documents: count}, nil
}

func (uc *BackupUseCase) collect(ctx context.Context) (*Snapshot, int, error) {
	snap := &Snapshot{
		TakenAt:     uc.now().UTC(),
		Collections: make(map[string][]content.Record, len(content.Collections)),
	}
	count := 0

	for _, name := range content.Collections {
		docs, err := uc.store.ListDocuments(ctx, name)
		if err != nil {
			return nil, 0, apperror.NewUnavailable(fmt.Sprintf("cannot list %s", name), err)
		}
		records := make([]content.Record, 0, len(docs))
		for _, d := range docs {
			r := d.Data.Clone()
			r[content.FieldID] = d.ID
			records = append(records, r)
		}
		snap.Collections[name] = records
		count += len(records)
	}

	var err error
	if snap.PersonalInfo, err = uc.singleton(ctx, content.PathPersonalInfo); err != nil {
		return nil, 0, err
	}
	if snap.Analytics, err = uc.singleton(ctx, content.PathAnalytics); err != nil {
		return nil, 0, err
	}
	for _, r := range []content.Record{snap.PersonalInfo, snap.Analytics} {
		if r != nil {
			count++
		}
	}
	return snap, count, nil
}

// singleton returns nil when the document has never been written.
func (uc *BackupUseCase) singleton(ctx context.Context, path string) (content.Record, error) {
	collection, id, err := content.SplitPath(path)
	if err != nil {
		return nil, err
	}
	doc, err := uc.store.GetDocument(ctx, collection, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, apperror.NewUnavailable(fmt.Sprintf("cannot read %s", path), err)
	}
	return doc.Data, nil
}
