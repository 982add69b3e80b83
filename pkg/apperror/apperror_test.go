package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewNotFound("document", "projects/1"), http.StatusNotFound},
		{NewInvalidInput("bad", nil), http.StatusBadRequest},
		{NewUnauthorized("nope", nil), http.StatusUnauthorized},
		{NewPermissionDenied("no owner"), http.StatusForbidden},
		{NewConflict("document", "id", "1"), http.StatusConflict},
		{NewUnavailable("store down", nil), http.StatusServiceUnavailable},
		{NewInternal("boom", errors.New("x")), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFound("a", "b")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToHTTPStatus(tc.err), tc.err.Error())
	}
}

func TestToJSON_InvalidInputCarriesDetails(t *testing.T) {
	body := NewInvalidInput("title: cannot be blank", errors.New("validation")).ToJSON()
	assert.Equal(t, "title: cannot be blank", body["details"])
	assert.Equal(t, "validation", body["cause"])

	internal := NewInternal("db", errors.New("secret")).ToJSON()
	assert.NotContains(t, internal, "cause")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "failed to insert document: write timeout",
		Summary(NewInternal("failed to insert document", errors.New("write timeout"))))
	assert.Equal(t, "document with identifier 'x' was not found",
		Summary(fmt.Errorf("wrap: %w", NewNotFound("document", "x"))))
	assert.Equal(t, "plain", Summary(errors.New("plain")))
}
