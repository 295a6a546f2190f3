package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoCaller is a downstream handler that reports the claims it received.
func echoCaller(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("downstream handler ran without claims")
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": c.UserID, "email": c.Email})
	})
}

func serveWithHeader(t *testing.T, ts *TokenService, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/gettodos", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	RequireAuth(ts)(echoCaller(t)).ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue("u1", "a@x.com")
	require.NoError(t, err)

	rr := serveWithHeader(t, ts, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "a@x.com", body["email"])
}

func TestRequireAuth_SchemeIsIgnored(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue("u1", "a@x.com")
	require.NoError(t, err)

	rr := serveWithHeader(t, ts, "Token "+token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	ts := newTestTokenService(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"scheme only", "Bearer"},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveWithHeader(t, ts, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Token is required", decodeBody(t, rr)["error"])
		})
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)

	rr := serveWithHeader(t, ts, "Bearer not.a.token")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Invalid token", decodeBody(t, rr)["error"])
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	ts.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
	token, err := ts.Issue("u1", "a@x.com")
	require.NoError(t, err)
	ts.now = time.Now

	rr := serveWithHeader(t, ts, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestClaimsFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
}
