package content

import (
	"fmt"
	"strings"
	"time"
)

const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldVersion   = "version"

	// FieldID carries the document id in exported records. Stores assign
	// ids on insert, so it is never written back as data.
	FieldID = "id"
)

// Record is one portfolio entry as decoded from seed data or an admin form.
type Record map[string]any

// Document is a stored Record together with its location in the store.
type Document struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Data       Record `json:"data"`
}

// Path returns the "collection/id" form used for named documents.
func (d Document) Path() string {
	return d.Collection + "/" + d.ID
}

// Clone returns a shallow copy so callers' maps are never mutated.
func (r Record) Clone() Record {
	out := make(Record, len(r)+3)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// WithDefaults returns a copy of r with createdAt, updatedAt and version filled
// in where absent. Caller-supplied values are preserved.
func (r Record) WithDefaults(now time.Time) Record {
	out := r.Clone()
	ms := now.UnixMilli()
	if _, ok := out[FieldCreatedAt]; !ok {
		out[FieldCreatedAt] = ms
	}
	if _, ok := out[FieldUpdatedAt]; !ok {
		out[FieldUpdatedAt] = ms
	}
	if _, ok := out[FieldVersion]; !ok {
		out[FieldVersion] = 1
	}
	return out
}

// Label picks a human readable name for detail lines: title, then name, then
// the 1-based position in the batch.
func (r Record) Label(index int) string {
	for _, key := range []string{"title", "name"} {
		if s, ok := r[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fmt.Sprintf("Item %d", index+1)
}

// Version reads the numeric version regardless of how it was decoded.
func (r Record) Version() int {
	switch v := r[FieldVersion].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// SplitPath splits "collection/id" into its parts.
func SplitPath(path string) (collection, id string, err error) {
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid document path %q", path)
	}
	return parts[0], parts[1], nil
}
