package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{shared.ErrAuthenticationMissing, http.StatusUnauthorized},
		{fmt.Errorf("auth: %w", shared.ErrAuthenticationInvalid), http.StatusUnauthorized},
		{shared.ErrAuthorizationRoleMismatch, http.StatusForbidden},
		{shared.ErrAuthorizationPrincipalNotEnrolled, http.StatusForbidden},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrValidation, http.StatusBadRequest},
		{shared.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		assert.Equal(t, tc.want, rr.Code, tc.err.Error())
		assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	}
}

func TestRespondErrorDoesNotLeakInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("dial tcp 10.1.2.3:5432: connection refused"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, body.Status)
	assert.Empty(t, body.Detail)
}

func TestRespondErrorSetsBearerChallenge(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, shared.ErrAuthenticationMissing)
	assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer")
}
