package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contentUC "github.com/khoahotran/portfolio/internal/application/usecase/content"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type ContentHandler struct {
	contentUseCase *contentUC.ContentUseCase
	logger         logger.Logger
}

func NewContentHandler(uc *contentUC.ContentUseCase, log logger.Logger) *ContentHandler {
	return &ContentHandler{contentUseCase: uc, logger: log}
}

func (h *ContentHandler) List(c *gin.Context) {
	docs, err := h.contentUseCase.List(c.Request.Context(), c.Param("collection"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ToDocumentDTOs(docs), "total": len(docs)})
}

func (h *ContentHandler) Get(c *gin.Context) {
	doc, err := h.contentUseCase.Get(c.Request.Context(), c.Param("collection"), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToDocumentDTO(doc))
}

func (h *ContentHandler) GetPersonalInfo(c *gin.Context) {
	doc, err := h.contentUseCase.GetPersonalInfo(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToDocumentDTO(doc))
}

func (h *ContentHandler) Create(c *gin.Context) {
	var record content.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.Error(apperror.NewInvalidInput("request body must be a JSON object", err))
		return
	}

	doc, err := h.contentUseCase.Create(c.Request.Context(), c.Param("collection"), record)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToDocumentDTO(doc))
}

func (h *ContentHandler) Update(c *gin.Context) {
	var record content.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.Error(apperror.NewInvalidInput("request body must be a JSON object", err))
		return
	}
	delete(record, "id")

	doc, err := h.contentUseCase.Update(c.Request.Context(), c.Param("collection"), c.Param("id"), record)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToDocumentDTO(doc))
}

func (h *ContentHandler) UpdatePersonalInfo(c *gin.Context) {
	var record content.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.Error(apperror.NewInvalidInput("request body must be a JSON object", err))
		return
	}
	delete(record, "id")

	doc, err := h.contentUseCase.UpdatePersonalInfo(c.Request.Context(), record)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToDocumentDTO(doc))
}

func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.contentUseCase.Delete(c.Request.Context(), c.Param("collection"), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
