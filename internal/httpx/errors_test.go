package httpx

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"no rows", sql.ErrNoRows, http.StatusNotFound, "Project not found"},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), http.StatusNotFound, "Project not found"},
		{"unique violation", &pq.Error{Code: "23505"}, http.StatusConflict, "Project already exists"},
		{"bad uuid", &pq.Error{Code: "22P02"}, http.StatusNotFound, "Project not found"},
		{"conn done", sql.ErrConnDone, http.StatusServiceUnavailable, "Database connection error"},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, http.StatusServiceUnavailable, "Database connection error"},
		{"unknown", errors.New("driver exploded"), http.StatusInternalServerError, "Server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromStore(tt.err, "Project")
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		in := Forbidden("nope")
		assert.Same(t, in, FromStore(in, "Project"))
	})
}

func TestValidation(t *testing.T) {
	t.Run("single field promotes its message", func(t *testing.T) {
		err := Validation(Field("title", "Please provide a title"))
		assert.Equal(t, http.StatusBadRequest, err.Status)
		assert.Equal(t, "Please provide a title", err.Message)
	})

	t.Run("multiple fields get a generic message", func(t *testing.T) {
		err := Validation(
			Field("title", "Please provide a title"),
			Field("image", "Please provide an image"),
		)
		assert.Equal(t, "Validation failed", err.Message)
		assert.Len(t, err.Fields, 2)
	})
}
