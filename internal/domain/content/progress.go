package content

import "strings"

type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusCompleted UploadStatus = "completed"
	StatusError     UploadStatus = "error"
)

// UploadProgress is the transient state of one collection's upload.
type UploadProgress struct {
	Collection string       `json:"collection"`
	Current    int          `json:"current"`
	Total      int          `json:"total"`
	Status     UploadStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
}

func (p UploadProgress) Terminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusError
}

// UploadResult is the outcome of one collection pass. Details are in input order.
type UploadResult struct {
	Collection string   `json:"collection"`
	Success    int      `json:"success"`
	Errors     int      `json:"errors"`
	Total      int      `json:"total"`
	Details    []string `json:"details"`
}

func (r UploadResult) OK() bool {
	return r.Errors == 0 && !r.Aborted()
}

// Aborted reports whether the collection-level handler fired.
func (r UploadResult) Aborted() bool {
	if len(r.Details) == 0 {
		return false
	}
	return strings.HasPrefix(r.Details[len(r.Details)-1], AbortPrefix)
}

const AbortPrefix = "💥 Collection upload failed: "
