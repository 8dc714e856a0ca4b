package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/api/dto"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/application/service"
)

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(DefaultConfig(), service.NewReconService(logger), logger)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func validRequest() dto.ReconcileRequest {
	return dto.ReconcileRequest{
		Partner:    "Shell",
		TimeBuffer: "1h",
		PrimaryRecords: []dto.Record{
			{RecordID: "p1", Timestamp: "2025-03-10 10:00:00", Amount: 50.00, VehicleID: "AB12", SiteName: "X", Reference: "RCPT-1"},
			{RecordID: "p2", Timestamp: "2025-03-10 10:00:00", Amount: 75.00, VehicleID: "CD34", SiteName: "Y"},
		},
		PartnerRecords: []dto.Record{
			{RecordID: "q1", Timestamp: "2025-03-10 10:30:00", Amount: 50.005, VehicleID: "AB12", SiteName: "X", PartnerReference: "SH-99"},
		},
	}
}

func TestServer_Health(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.Timestamp)
}

func TestServer_Reconcile(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/api/reconcile", validRequest())

	require.Equal(t, http.StatusOK, rec.Code)

	var response dto.ReconcileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	require.Len(t, response.Matches, 1)
	assert.Equal(t, "p1", response.Matches[0].Primary.RecordID)
	assert.Equal(t, "q1", response.Matches[0].Partner.RecordID)

	require.Len(t, response.Mismatches, 1)
	assert.Equal(t, "p2", response.Mismatches[0].Record.RecordID)
	assert.Equal(t, "Vehicle Mismatch", response.Mismatches[0].Reason)

	assert.Equal(t, "Shell", response.Summary.Partner)
	assert.Equal(t, 2, response.Summary.PrimaryCount)
	assert.Equal(t, 1, response.Summary.MatchedPairs)
}

func TestServer_Reconcile_Validation(t *testing.T) {
	s := newTestServer()

	t.Run("unknown partner", func(t *testing.T) {
		req := validRequest()
		req.Partner = "Esso"
		rec := doJSON(t, s, http.MethodPost, "/api/reconcile", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unparsable time buffer", func(t *testing.T) {
		req := validRequest()
		req.TimeBuffer = "sixty minutes"
		rec := doJSON(t, s, http.MethodPost, "/api/reconcile", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("buffer beyond 24h", func(t *testing.T) {
		req := validRequest()
		req.TimeBuffer = "25h"
		rec := doJSON(t, s, http.MethodPost, "/api/reconcile", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeConfiguration, apiErr.Code)
	})

	t.Run("bad record timestamp", func(t *testing.T) {
		req := validRequest()
		req.PrimaryRecords[0].Timestamp = "10/03/2025 10:00"
		rec := doJSON(t, s, http.MethodPost, "/api/reconcile", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeValidation, apiErr.Code)
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/reconcile", bytes.NewBufferString("primary=1"))
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Reconcile_ZeroBufferHonored(t *testing.T) {
	// An explicit "0s" buffer narrows the window to identical
	// timestamps; it must not fall back to the 1-hour default.
	s := newTestServer()
	req := validRequest()
	req.TimeBuffer = "0s"

	rec := doJSON(t, s, http.MethodPost, "/api/reconcile", req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response dto.ReconcileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	// q1 sits 30 minutes from p1, outside a zero-width window.
	assert.Empty(t, response.Matches)
	require.Len(t, response.Mismatches, 2)
	assert.Equal(t, "Time Mismatch", response.Mismatches[0].Reason)
}

func TestServer_ReconcileCSV(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/api/reconcile/csv", validRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "matched_transactions_Shell.csv")

	body := rec.Body.String()
	assert.Contains(t, body, "primary_record_id")
	assert.Contains(t, body, "p1")
	assert.Contains(t, body, "SH-99")
}
