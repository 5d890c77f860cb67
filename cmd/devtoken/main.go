package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Tiny dev-only JWT issuer + JWKS server.
//
// This is NOT an OIDC provider. It exists so local development can exercise
// the real RS256 verification path (issuer/audience/expiry + JWKS discovery)
// without an Auth0 tenant.

type jsonWebKey struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type keySet struct {
	Keys []jsonWebKey `json:"keys"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	port := getenv("PORT", "5556")
	issuer := getenv("ISSUER", "http://localhost:5556/")
	audience := getenv("AUDIENCE", "travel-bridge")
	keyID := getenv("KID", "dev-key-1")
	ttl := getenvDuration("TTL", 30*time.Minute)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal().Err(err).Msg("key generation failed")
	}

	jwksJSON, err := json.Marshal(marshalKeySet(&key.PublicKey, keyID))
	if err != nil {
		log.Fatal().Err(err).Msg("jwks marshalling failed")
	}

	mux := http.NewServeMux()

	// discovery document, as fetched by the JWKS caching provider
	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"issuer":   issuer,
			"jwks_uri": strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json",
		})
	})

	mux.HandleFunc("GET /.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(jwksJSON)
	})

	// Mint a token:
	//   GET /token?sub=dev|alice
	mux.HandleFunc("GET /token", func(w http.ResponseWriter, r *http.Request) {
		sub := strings.TrimSpace(r.URL.Query().Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}

		now := time.Now().UTC()
		signed, err := mintToken(key, keyID, issuer, audience, sub, now, ttl)
		if err != nil {
			log.Warn().Err(err).Msg("token minting failed")
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"token": signed,
			"sub":   sub,
			"iss":   issuer,
			"aud":   audience,
			"exp":   now.Add(ttl).Unix(),
		})
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().
		Str("port", port).
		Str("issuer", issuer).
		Str("audience", audience).
		Str("kid", keyID).
		Dur("ttl", ttl).
		Msg("devtoken listening")

	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func mintToken(key *rsa.PrivateKey, keyID, issuer, audience, subject string, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	token.Header["kid"] = keyID

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing failed: %w", err)
	}
	return signed, nil
}

func marshalKeySet(pub *rsa.PublicKey, keyID string) keySet {
	enc := base64.RawURLEncoding
	return keySet{
		Keys: []jsonWebKey{{
			Kty: "RSA",
			Use: "sig",
			Alg: "RS256",
			Kid: keyID,
			N:   enc.EncodeToString(pub.N.Bytes()),
			E:   enc.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("var", name).Str("value", v).Msg("invalid duration, using default")
		return fallback
	}
	return d
}
