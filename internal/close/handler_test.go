package close

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
)

func TestRespondErrorMissingAccount(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	rec := httptest.NewRecorder()
	h.respondError(rec, fmt.Errorf("close period: %w", shared.ErrMissingAccount))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Configuration Incomplete")
}

func TestRespondErrorNothingToClose(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	rec := httptest.NewRecorder()
	h.respondError(rec, ErrNothingToClose)
	require.Equal(t, http.StatusConflict, rec.Code)
}
