package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/seedjob"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// JobUseCase is the API side of background seeding: it records a job and
// hands it to the queue.
type JobUseCase struct {
	jobs       seedjob.Repository
	queue      service.JobQueue
	production bool
	logger     logger.Logger
	now        func() time.Time
}

func NewJobUseCase(jobs seedjob.Repository, queue service.JobQueue, production bool, log logger.Logger) *JobUseCase {
	return &JobUseCase{jobs: jobs, queue: queue, production: production, logger: log, now: time.Now}
}

type RequestJobInput struct {
	ClearFirst bool
	Collection string
	Force      bool
}

func (uc *JobUseCase) Request(ctx context.Context, input RequestJobInput) (*seedjob.Job, error) {
	ctx, span := tracer.Start(ctx, "RequestJob")
	defer span.End()

	if input.Collection != "" && !content.IsKnownCollection(input.Collection) {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown collection %q", input.Collection), nil)
	}
	if input.ClearFirst && uc.production && !input.Force {
		return nil, apperror.NewPermissionDenied("clearing collections in production requires force")
	}

	job := seedjob.NewJob(input.ClearFirst, input.Collection, uc.now().UTC())
	span.SetAttributes(attribute.String("job_id", job.ID.String()))

	if err := uc.jobs.Save(ctx, job); err != nil {
		uc.logger.Error("Failed to save seed job", err, zap.String("job_id", job.ID.String()))
		return nil, apperror.NewInternal("failed to save seed job", err)
	}

	if err := uc.queue.PublishSeedRequest(ctx, job.Request()); err != nil {
		uc.logger.Error("Failed to publish seed request", err, zap.String("job_id", job.ID.String()))
		job.Fail(err, uc.now().UTC())
		if saveErr := uc.jobs.Save(ctx, job); saveErr != nil {
			uc.logger.Warn("Failed to mark seed job as failed", zap.Error(saveErr))
		}
		span.RecordError(err)
		return nil, apperror.NewUnavailable("seed queue is unavailable", err)
	}

	uc.logger.Info("Seed job queued",
		zap.String("job_id", job.ID.String()),
		zap.Bool("clear_first", job.ClearFirst),
		zap.String("collection", job.Collection),
	)
	return job, nil
}

func (uc *JobUseCase) Get(ctx context.Context, id uuid.UUID) (*seedjob.Job, error) {
	job, err := uc.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, seedjob.ErrJobNotFound) {
			return nil, apperror.NewNotFound("seed job", id.String())
		}
		return nil, apperror.NewInternal("failed to load seed job", err)
	}
	return job, nil
}

// JobRunner is the worker side: it executes one queued request against the
// record store and keeps the job state current while it runs.
type JobRunner struct {
	store     content.Store
	jobs      seedjob.Repository
	publisher service.ProgressPublisher
	loadSeed  func() (*Seed, error)
	logger    logger.Logger
	now       func() time.Time
}

func NewJobRunner(store content.Store, jobs seedjob.Repository, publisher service.ProgressPublisher, seedPath string, log logger.Logger) *JobRunner {
	return &JobRunner{
		store:     store,
		jobs:      jobs,
		publisher: publisher,
		loadSeed:  func() (*Seed, error) { return LoadSeed(seedPath) },
		logger:    log,
		now:       time.Now,
	}
}

// Run returns an error only when the job state could not be persisted, so the
// caller can retry the message. Upload failures end up in the job itself.
func (r *JobRunner) Run(ctx context.Context, req seedjob.Request) error {
	ctx, span := tracer.Start(ctx, "RunJob")
	defer span.End()
	span.SetAttributes(attribute.String("job_id", req.JobID.String()))

	log := r.logger.With(zap.String("job_id", req.JobID.String()))

	job, err := r.jobs.FindByID(ctx, req.JobID)
	switch {
	case errors.Is(err, seedjob.ErrJobNotFound):
		job = &seedjob.Job{
			ID:         req.JobID,
			ClearFirst: req.ClearFirst,
			Collection: req.Collection,
			Progress:   []content.UploadProgress{},
			CreatedAt:  req.RequestedAt,
		}
	case err != nil:
		return fmt.Errorf("load job %s: %w", req.JobID, err)
	case job.Done():
		log.Info("Seed job already finished, skip", zap.String("status", string(job.Status)))
		return nil
	}

	job.Start(r.now().UTC())
	if err := r.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}

	s, err := r.loadSeed()
	if err != nil {
		log.Error("Failed to load seed data", err)
		job.Fail(err, r.now().UTC())
		return r.jobs.Save(ctx, job)
	}

	uploader, err := NewUploader(r.store, MultiProgress(r.progressSink(ctx, job, log), LogProgress(log)), log)
	if err != nil {
		job.Fail(err, r.now().UTC())
		return r.jobs.Save(ctx, job)
	}
	orch := NewOrchestrator(uploader, log)

	var results []content.UploadResult
	if job.Collection != "" {
		result, err := orch.UploadOne(ctx, s, job.Collection, job.ClearFirst)
		if err != nil {
			job.Fail(err, r.now().UTC())
			return r.jobs.Save(ctx, job)
		}
		results = []content.UploadResult{result}
	} else {
		results = orch.UploadAllData(ctx, s, job.ClearFirst)
	}

	job.Finish(results, HasFailures(results), r.now().UTC())
	success, failed := Totals(results)
	log.Info("Seed job finished", zap.Int("success", success), zap.Int("errors", failed))

	if err := r.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

// progressSink mirrors every snapshot into the job record and the progress
// topic. Sink failures are logged only; they never affect the upload.
func (r *JobRunner) progressSink(ctx context.Context, job *seedjob.Job, log logger.Logger) ProgressFunc {
	return func(snapshot []content.UploadProgress) {
		job.Progress = snapshot
		job.UpdatedAt = r.now().UTC()
		if err := r.jobs.Save(ctx, job); err != nil {
			log.Warn("Failed to save seed progress", zap.Error(err))
		}
		if r.publisher == nil {
			return
		}
		if err := r.publisher.PublishProgress(ctx, job.ID, snapshot); err != nil {
			log.Warn("Failed to publish seed progress", zap.Error(err))
		}
	}
}
