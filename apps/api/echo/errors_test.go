package echoapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/session"
)

func TestAppHTTPErrorHandler(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "missing jwt",
			err:      middleware.ErrJWTMissing,
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"missing or malformed jwt"}`,
		},
		{
			name:     "http error",
			err:      echo.NewHTTPError(http.StatusNotFound, "Not Found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Not Found"}`,
		},
		{
			name:     "validation fields",
			err:      core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a date"}),
			wantCode: http.StatusBadRequest,
			wantBody: `{"date":"must be a date"}`,
		},
		{
			name:     "login failed",
			err:      errors.Wrap(session.ErrLoginFailed, "logging in"),
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"no account with this email"}`,
		},
		{
			name:     "unauthenticated",
			err:      errors.Wrap(core.ErrUnauthenticated, "creating item"),
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"not authenticated"}`,
		},
		{
			name:     "forbidden",
			err:      errors.Wrap(core.ErrForbidden, "creating item"),
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"permission denied"}`,
		},
		{
			name:     "not found",
			err:      errors.Wrap(core.ErrNotFound, "changing role"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"not found"}`,
		},
		{
			name:     "duplicate email",
			err:      errors.Wrap(core.ErrDuplicateEmail, "registering"),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"a user with this email already exists","notice":true}`,
		},
		{
			name:     "upload in progress",
			err:      errors.Wrap(session.ErrUploadInProgress, "uploading file"),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"an upload is already in progress"}`,
		},
		{
			name:     "persistence",
			err:      errors.Wrap(core.NewPersistenceError("create_item", boom), "creating item"),
			wantCode: http.StatusBadGateway,
		},
		{
			name:     "upload",
			err:      errors.Wrap(core.NewUploadError("serie1.pdf", boom), "uploading file"),
			wantCode: http.StatusBadGateway,
		},
		{
			name:     "anything else",
			err:      boom,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
	}

	app := echo.New()
	handler := newAppHTTPErrorHandler(core.NewNopLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx := app.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			handler(tt.err, ctx)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	t.Run("remote failures are notices", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ctx := app.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
		handler(core.NewPersistenceError("replace_timetable", boom), ctx)

		var got noticeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Notice)
		assert.Contains(t, got.Error, "connection reset")
	})
}

func TestSnapshotPrefix(t *testing.T) {
	assert.Equal(t, "1bacsm2", snapshotPrefix("1bacsm2_state"))
	assert.Equal(t, "prefs", snapshotPrefix("prefs"))
	assert.Equal(t, "classhub", snapshotPrefix(""))
}
