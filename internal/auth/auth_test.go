package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/muzaini-app/muzaini-reports/internal/auth"
)

func hash(t *testing.T, token string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthenticate(t *testing.T) {
	svc, err := auth.NewService([]string{hash(t, "alpha"), " ", hash(t, "beta")})
	require.NoError(t, err)
	require.True(t, svc.Enabled())

	require.NoError(t, svc.Authenticate("alpha"))
	require.NoError(t, svc.Authenticate("alpha"))
	require.NoError(t, svc.Authenticate("beta"))
	require.ErrorIs(t, svc.Authenticate("gamma"), auth.ErrInvalidToken)
	require.ErrorIs(t, svc.Authenticate(""), auth.ErrInvalidToken)
}

func TestNewServiceRejectsMalformedHashes(t *testing.T) {
	_, err := auth.NewService([]string{"plain-text"})
	require.Error(t, err)
}

func TestHashTokenRoundTrip(t *testing.T) {
	h, err := auth.HashToken("secret")
	require.NoError(t, err)
	svc, err := auth.NewService([]string{h})
	require.NoError(t, err)
	require.NoError(t, svc.Authenticate("secret"))

	_, err = auth.HashToken("  ")
	require.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	svc, err := auth.NewService([]string{hash(t, "alpha")})
	require.NoError(t, err)
	handler := svc.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer alpha", http.StatusNoContent},
		{"case insensitive scheme", "bearer alpha", http.StatusNoContent},
		{"wrong token", "Bearer beta", http.StatusUnauthorized},
		{"basic scheme", "Basic alpha", http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reports", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			require.Equal(t, tc.code, rr.Code)
			if tc.code == http.StatusUnauthorized {
				require.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func TestMiddlewareDisabledWithoutTokens(t *testing.T) {
	svc, err := auth.NewService(nil)
	require.NoError(t, err)
	require.False(t, svc.Enabled())

	handler := svc.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reports", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}
