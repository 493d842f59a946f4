package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
	assert.Nil(t, resp.Fields)
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantFields map[string]string
	}{
		{
			name:       "not found",
			err:        apperr.NotFound("Profiles not found"),
			wantStatus: http.StatusNotFound,
			wantError:  "Profiles not found",
		},
		{
			name:       "validation with fields",
			err:        apperr.Validation("comment", "This field is required."),
			wantStatus: http.StatusBadRequest,
			wantError:  "comment: This field is required.",
			wantFields: map[string]string{"comment": "This field is required."},
		},
		{
			name:       "conflict",
			err:        apperr.Conflict("The user has already answered the task"),
			wantStatus: http.StatusConflict,
			wantError:  "The user has already answered the task",
		},
		{
			name:       "internal error is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			Fail(rec, req, newNoopLogger(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, StatusError, body.Status)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantFields, body.Fields)
		})
	}
}

func TestRaw(t *testing.T) {
	rec := httptest.NewRecorder()
	payload := json.RawMessage(`{"count":1,"next":null,"previous":null,"results":[]}`)

	Raw(rec, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, string(payload), rec.Body.String())
}
