package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_BUDGET/internal/dto"
	"GO2GETHER_BUDGET/internal/ledger"
)

func TestWriteLedgerError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", ledger.NewValidationError("title", "is required"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", ledger.NewValidationError("amount", "bad")), http.StatusBadRequest},
		{"not a member", ledger.ErrNotAuthorized, http.StatusNotFound},
		{"forbidden", ledger.ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("budget item: %w", ledger.ErrNotFound), http.StatusNotFound},
		{"full", ledger.ErrTripFull, http.StatusConflict},
		{"unauthenticated", ledger.ErrUnauthenticated, http.StatusUnauthorized},
		{"upstream", fmt.Errorf("%w: insert: %w", ledger.ErrUpstream, errors.New("boom")), http.StatusInternalServerError},
		{"unknown", errors.New("???"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteLedgerError(rec, httptest.NewRequest(http.MethodGet, "/trips", nil), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteLedgerError_Fields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteLedgerError(rec, httptest.NewRequest(http.MethodPost, "/", nil), ledger.NewValidationError("currency", "must be a 3-letter code"))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "must be a 3-letter code", body.Fields["currency"])
}

func TestWriteLedgerError_UpstreamHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteLedgerError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("password=hunter2"))
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestDecodeJSONRequest(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Taxi"}`))
	require.NoError(t, DecodeJSONRequest(rec, req, &dst))
	assert.Equal(t, "Taxi", dst.Title)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	assert.Error(t, DecodeJSONRequest(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Error(t, DecodeJSONRequest(rec, req, &dst))
	assert.Contains(t, rec.Body.String(), "request body is required")
}

func TestUserIDContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserIDFromContext(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = GetUserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)
}
