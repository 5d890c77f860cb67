package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travel-bridge/internal/audit"
	"github.com/voyago/travel-bridge/internal/auth"
	"github.com/voyago/travel-bridge/internal/config"
	"github.com/voyago/travel-bridge/internal/testhelpers"
)

const testAudience = "travel-bridge"

func setupProtected(t *testing.T) (*testhelpers.SigningKey, string, http.Handler, *string) {
	t.Helper()
	testhelpers.SetupLogger(t)

	key := testhelpers.GenerateSigningKey(t)
	issuer := testhelpers.SetupJWKSServer(t, key)

	middleware, err := auth.Middleware(config.AuthorizationConfig{
		Audience:  testAudience,
		IssuerURL: issuer.URL,
	})
	require.NoError(t, err)

	var seenSubject string
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSubject = auth.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	return key, issuer.URL, audit.Middleware()(middleware(probe)), &seenSubject
}

func TestMiddleware_AcceptsValidToken(t *testing.T) {
	key, issuerURL, handler, seenSubject := setupProtected(t)

	token := key.Sign(t, testhelpers.ValidClaims(issuerURL, testAudience, "auth0|alice"))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Result().StatusCode)
	assert.Equal(t, "auth0|alice", *seenSubject)
}

func TestMiddleware_RejectsMissingToken(t *testing.T) {
	_, _, handler, _ := setupProtected(t)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	key, issuerURL, handler, _ := setupProtected(t)

	cases := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"wrong audience", testhelpers.ValidClaims(issuerURL, "another-service", "auth0|alice")},
		{"wrong issuer", testhelpers.ValidClaims("https://elsewhere.example", testAudience, "auth0|alice")},
		{
			"expired",
			jwt.MapClaims{
				"iss": issuerURL,
				"aud": testAudience,
				"sub": "auth0|alice",
				"iat": jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				"exp": jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			req.Header.Set("Authorization", "Bearer "+key.Sign(t, tc.claims))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
		})
	}
}

func TestMiddleware_EnrichesAuditEntry(t *testing.T) {
	testhelpers.SetupLogger(t)

	key := testhelpers.GenerateSigningKey(t)
	issuer := testhelpers.SetupJWKSServer(t, key)

	middleware, err := auth.Middleware(config.AuthorizationConfig{
		Audience:  testAudience,
		IssuerURL: issuer.URL,
	})
	require.NoError(t, err)

	var entry *audit.Entry
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry = audit.Log(r.Context())
	})
	handler := audit.Middleware()(middleware(probe))

	token := key.Sign(t, testhelpers.ValidClaims(issuer.URL, testAudience, "auth0|alice"))
	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, entry)
	assert.True(t, entry.Authorized)
	assert.Equal(t, "auth0|alice", entry.AuthSubject)
	assert.Equal(t, issuer.URL, entry.AuthIssuer)
	assert.Equal(t, []string{testAudience}, entry.AuthAudience)
}

func TestSubjectFromContext_NoClaims(t *testing.T) {
	assert.Empty(t, auth.SubjectFromContext(t.Context()))
}
