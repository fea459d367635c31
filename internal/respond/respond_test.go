package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Forbidden("Forbidden: insufficient privileges"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, ErrorBody{Message: "Forbidden: insufficient privileges"}, decodeError(t, rec))

	rec = httptest.NewRecorder()
	Error(rec, apperr.Internal("Failed to fetch reports", errors.New("server selection timeout")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrorBody{Message: "Failed to fetch reports", Error: "server selection timeout"}, decodeError(t, rec))

	rec = httptest.NewRecorder()
	Error(rec, fmt.Errorf("wrapped: %w", apperr.NotFound("Report not found")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Report not found", decodeError(t, rec).Message)

	rec = httptest.NewRecorder()
	Error(rec, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrorBody{Message: "Internal server error", Error: "boom"}, decodeError(t, rec))
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, Decode(r, &dst))
	assert.Equal(t, "x", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Equal(t, 400, apperr.Status(Decode(r, &dst)))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err := Decode(r, &dst)
	assert.Equal(t, 400, apperr.Status(err))
	assert.EqualError(t, err, "Request body is required")
}
