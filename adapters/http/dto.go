package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/seedjob"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RequestSeedRequest struct {
	ClearFirst bool   `json:"clear_first"`
	Collection string `json:"collection"`
	Force      bool   `json:"force"`
}

// ToDocumentDTO flattens a document into its record with the id alongside,
// which is the shape the site frontend reads.
func ToDocumentDTO(d content.Document) map[string]any {
	out := make(map[string]any, len(d.Data)+1)
	for k, v := range d.Data {
		out[k] = v
	}
	out["id"] = d.ID
	return out
}

func ToDocumentDTOs(docs []content.Document) []map[string]any {
	out := make([]map[string]any, len(docs))
	for i, d := range docs {
		out[i] = ToDocumentDTO(d)
	}
	return out
}

type SeedJobDTO struct {
	ID         uuid.UUID                `json:"id"`
	Status     seedjob.Status           `json:"status"`
	ClearFirst bool                     `json:"clear_first"`
	Collection string                   `json:"collection,omitempty"`
	Progress   []content.UploadProgress `json:"progress"`
	Results    []content.UploadResult   `json:"results,omitempty"`
	Success    int                      `json:"success"`
	Errors     int                      `json:"errors"`
	Failures   bool                     `json:"failures"`
	Error      string                   `json:"error,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

func ToSeedJobDTO(j *seedjob.Job) SeedJobDTO {
	dto := SeedJobDTO{
		ID:         j.ID,
		Status:     j.Status,
		ClearFirst: j.ClearFirst,
		Collection: j.Collection,
		Progress:   j.Progress,
		Results:    j.Results,
		Failures:   j.Failures,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
	for _, r := range j.Results {
		dto.Success += r.Success
		dto.Errors += r.Errors
	}
	return dto
}
