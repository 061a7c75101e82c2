package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobbyreg/internal/exemption"
	"lobbyreg/pkg/testutil"
)

func newRouter() chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(exemption.New(logger), logger).Register(r)
	return r
}

func TestHandleCheck(t *testing.T) {
	router := newRouter()
	// Friday, so the three-working-day deadline skips the weekend.
	now := time.Date(2025, time.October, 17, 9, 0, 0, 0, time.UTC)

	body, err := json.Marshal(map[string]any{"hoursPerQuarter": 20})
	require.NoError(t, err)

	req := testutil.RequestAt(httptest.NewRequest(http.MethodPost, "/exemption/check", bytes.NewReader(body)), now)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, false, result["isExempt"])
	assert.Equal(t, "NONE", result["exemptionType"])
	assert.Equal(t, true, result["mustRegister"])
	assert.Equal(t, "October 22, 2025", result["registrationDeadline"])
}

func TestHandleCheck_Exempt(t *testing.T) {
	router := newRouter()

	body, err := json.Marshal(map[string]any{"hoursPerQuarter": 8, "isNewsMedia": true})
	require.NoError(t, err)

	req := testutil.RequestAt(httptest.NewRequest(http.MethodPost, "/exemption/check", bytes.NewReader(body)),
		time.Date(2025, time.October, 17, 9, 0, 0, 0, time.UTC))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, true, result["isExempt"])
	assert.Equal(t, "HOURS_THRESHOLD", result["exemptionType"], "hours rule outranks the news media flag")
}

func TestHandleCheck_BadBody(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest(http.MethodPost, "/exemption/check", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
