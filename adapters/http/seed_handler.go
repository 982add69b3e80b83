package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	backupUC "github.com/khoahotran/portfolio/internal/application/usecase/backup"
	seedUC "github.com/khoahotran/portfolio/internal/application/usecase/seed"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// SeedHandler exposes background seeding and content backups to the admin.
type SeedHandler struct {
	jobUseCase    *seedUC.JobUseCase
	backupUseCase *backupUC.BackupUseCase
	logger        logger.Logger
}

func NewSeedHandler(jobUC *seedUC.JobUseCase, backup *backupUC.BackupUseCase, log logger.Logger) *SeedHandler {
	return &SeedHandler{jobUseCase: jobUC, backupUseCase: backup, logger: log}
}

func (h *SeedHandler) RequestSeed(c *gin.Context) {
	// An empty body, sized or chunked, asks for the default full upload.
	var req RequestSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.NewInvalidInput("invalid seed request", err))
		return
	}

	job, err := h.jobUseCase.Request(c.Request.Context(), seedUC.RequestJobInput{
		ClearFirst: req.ClearFirst,
		Collection: req.Collection,
		Force:      req.Force,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, ToSeedJobDTO(job))
}

func (h *SeedHandler) GetSeedJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid job id", err))
		return
	}

	job, err := h.jobUseCase.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSeedJobDTO(job))
}

func (h *SeedHandler) Backup(c *gin.Context) {
	if h.backupUseCase == nil {
		c.Error(apperror.NewUnavailable("backup storage is not configured", nil))
		return
	}
	out, err := h.backupUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": out.URL, "public_id": out.PublicID, "documents": out.Documents})
}
