package adapter

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/httpclient"
	"sales-manager/internal/features/auth/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyID = "test-key"

type certServer struct {
	key *rsa.PrivateKey
	ts  *httptest.Server
}

// newCertServer serves a JWKS document with one RSA key, standing in for
// Google's certificate endpoint.
func newCertServer(t *testing.T) *certServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := map[string]any{
		"keys": []map[string]string{{
			"kid": testKeyID,
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(ts.Close)

	return &certServer{key: key, ts: ts}
}

// client returns a logging client that sends every request to the cert server.
func (s *certServer) client() *http.Client {
	target, _ := url.Parse(s.ts.URL)
	c := httpclient.NewClient(time.Second)
	next := c.Transport
	c.Transport = roundTripFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.Host = target.Host
		return next.RoundTrip(req)
	})
	return c
}

func (s *certServer) sign(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "RS256", "kid": testKeyID, "typ": "JWT"})
	require.NoError(t, err)
	body, err := json.Marshal(claims)
	require.NoError(t, err)

	signed := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(body)
	sum := sha256.Sum256([]byte(signed))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, sum[:])
	require.NoError(t, err)

	return signed + "." + base64.RawURLEncoding.EncodeToString(sig)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func googleClaims(aud string) map[string]any {
	now := time.Now()
	return map[string]any{
		"iss":   "https://accounts.google.com",
		"aud":   aud,
		"sub":   "1234",
		"email": "Ana@Example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func TestIDTokenVerifier_Verify(t *testing.T) {
	certs := newCertServer(t)
	ctx := context.Background()

	verifier, err := NewIDTokenVerifier(ctx, certs.client(), "client-1")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		user, err := verifier.Verify(ctx, certs.sign(t, googleClaims("client-1")))
		require.NoError(t, err)
		assert.Equal(t, domain.User{ID: "google-1234", Email: "ana@example.com", Provider: domain.ProviderFederated}, user)
	})

	expired := googleClaims("client-1")
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	foreignIssuer := googleClaims("client-1")
	foreignIssuer["iss"] = "https://issuer.example.com"

	noSubject := googleClaims("client-1")
	delete(noSubject, "sub")

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	forged := (&certServer{key: other}).sign(t, googleClaims("client-1"))

	providerCases := []struct {
		name   string
		token  string
		detail string
	}{
		{"EmptyToken", "", "token não informado"},
		{"Malformed", "not-a-jwt", "token inválido"},
		{"AudienceMismatch", certs.sign(t, googleClaims("client-2")), "token emitido para outro aplicativo"},
		{"Expired", certs.sign(t, expired), "token expirado"},
		{"ForeignIssuer", certs.sign(t, foreignIssuer), "emissor do token desconhecido"},
		{"BadSignature", forged, "token inválido"},
		{"MissingSubject", certs.sign(t, noSubject), "token sem identificador de usuário"},
	}
	for _, tc := range providerCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(ctx, tc.token)
			fe, ok := failure.As(err)
			require.True(t, ok)
			assert.Equal(t, failure.CauseProvider, fe.Cause)
			assert.Equal(t, tc.detail, fe.Detail)
		})
	}
}

func TestIDTokenVerifier_NoAudienceCheck(t *testing.T) {
	certs := newCertServer(t)
	ctx := context.Background()

	verifier, err := NewIDTokenVerifier(ctx, certs.client(), "")
	require.NoError(t, err)

	user, err := verifier.Verify(ctx, certs.sign(t, googleClaims("some-other-client")))
	require.NoError(t, err)
	assert.Equal(t, "google-1234", user.ID)
}

func TestIDTokenVerifier_CertsUnreachable(t *testing.T) {
	certs := newCertServer(t)
	token := certs.sign(t, googleClaims("client-1"))
	client := certs.client()
	certs.ts.Close()

	verifier, err := NewIDTokenVerifier(context.Background(), client, "client-1")
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.Equal(t, failure.CauseNetwork, failure.CauseOf(err))
}
