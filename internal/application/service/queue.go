package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/seedjob"
)

type JobQueue interface {
	PublishSeedRequest(ctx context.Context, req seedjob.Request) error
}

// ProgressPublisher fans seed progress out to other consumers.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, jobID uuid.UUID, snapshot []content.UploadProgress) error
}
