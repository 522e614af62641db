package cashbox

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	acctshared "github.com/lucero-pos/lucero-pos/internal/accounting/shared"
)

func TestRespondErrorMissingAccount(t *testing.T) {
	h := NewHandler(testLogger(), nil)
	rec := httptest.NewRecorder()
	h.respondError(rec, fmt.Errorf("open session: %w", acctshared.ErrMissingAccount))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Configuration Incomplete")
}
