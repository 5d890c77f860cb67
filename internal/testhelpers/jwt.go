package testhelpers

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// SigningKey is an RSA key pair for signing test JWTs and publishing the
// matching JWKS.
type SigningKey struct {
	Key   *rsa.PrivateKey
	KeyID string
}

func GenerateSigningKey(t *testing.T) *SigningKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate private key")

	return &SigningKey{Key: key, KeyID: "test-kid"}
}

// Sign produces a serialized RS256 JWT for the claims, carrying the key ID
// in its header.
func (k *SigningKey) Sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = k.KeyID

	signed, err := token.SignedString(k.Key)
	require.NoError(t, err, "failed to sign JWT")

	return signed
}

// ValidClaims returns claims for the issuer and audience that are valid from
// one minute ago until one minute from now.
func ValidClaims(issuer, audience, subject string) jwt.MapClaims {
	now := time.Now().UTC()
	return jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": subject,
		"iat": jwt.NewNumericDate(now),
		"nbf": jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		"exp": jwt.NewNumericDate(now.Add(1 * time.Minute)),
	}
}

// SetupJWKSServer creates a mock OIDC provider serving discovery and the
// public key set for the signing key. The returned server doubles as the
// token issuer URL.
func SetupJWKSServer(t *testing.T, key *SigningKey) *httptest.Server {
	t.Helper()

	var server *httptest.Server

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			wk := struct {
				Issuer  string `json:"issuer"`
				JWKSURI string `json:"jwks_uri"`
			}{
				Issuer:  server.URL,
				JWKSURI: server.URL + "/.well-known/jwks.json",
			}
			WriteJSON(t, w, wk)
		case "/.well-known/jwks.json":
			WriteJSON(t, w, jwksDocument(key))
		default:
			http.Error(w, "unexpected JWKS server request: "+r.URL.String(), http.StatusInternalServerError)
		}
	})

	server = httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func WriteJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	require.NoError(t, err, "failed to write JSON response")
}

func jwksDocument(key *SigningKey) map[string]any {
	enc := base64.RawURLEncoding
	pub := key.Key.PublicKey

	return map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": key.KeyID,
			"n":   enc.EncodeToString(pub.N.Bytes()),
			"e":   enc.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
}
