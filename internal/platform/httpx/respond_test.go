package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
)

func TestRespondErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.NotFound("medicine", "m1"), http.StatusNotFound},
		{shared.Conflict("duplicate email"), http.StatusConflict},
		{shared.NewValidationError("price", "must not be negative"), http.StatusBadRequest},
		{fmt.Errorf("ping: %w", shared.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		require.Equal(t, tc.status, rr.Code, tc.err.Error())

		var body ProblemDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Equal(t, tc.status, body.Status)
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("password=secret"))
	require.NotContains(t, rr.Body.String(), "secret")
	require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}
