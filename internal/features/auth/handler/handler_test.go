package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/store"
	adapter "sales-manager/internal/features/auth/adapters"
	"sales-manager/internal/features/auth/domain"
	orderadapter "sales-manager/internal/features/orders/adapters"
	"sales-manager/internal/features/sessions"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubVerifier accepts only the token "good".
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (domain.User, error) {
	if token != "good" {
		return domain.User{}, failure.Auth(failure.CauseProvider, "token inválido", nil)
	}
	return domain.User{ID: "google-42", Email: "ana@example.com", Provider: domain.ProviderFederated}, nil
}

type testEnv struct {
	app      *fiber.App
	registry *sessions.Registry
	accounts *adapter.StoreAccountRegistry
	mr       *miniredis.Miniredis
}

func setupApp(t *testing.T) testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := store.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	accounts := adapter.NewStoreAccountRegistry(s, bcrypt.MinCost)
	factory := sessions.NewFactory(accounts, stubVerifier{}, adapter.NewLoginLimiter(100), orderadapter.NewStoreOrderGateway(s, nil))
	registry := sessions.NewRegistry(context.Background(), factory, 10, time.Minute, nil)
	t.Cleanup(registry.Close)

	h := NewAuthHandler(accounts, registry)
	app := fiber.New()
	app.Post("/auth/accounts", h.Register)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/federated", h.SignInWithFederatedToken)
	app.Post("/auth/logout", registry.Middleware(), h.Logout)

	return testEnv{app: app, registry: registry, accounts: accounts, mr: mr}
}

func post(t *testing.T, app *fiber.App, path string, body any, token string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupApp(t)

	t.Run("Created", func(t *testing.T) {
		resp := post(t, env.app, "/auth/accounts", CredentialsRequest{Email: "Ana@Example.com", Password: "secret1"}, "")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decode[AccountResponse](t, resp)
		assert.NotEmpty(t, body.UID)
		assert.Equal(t, "ana@example.com", body.Email)
	})

	t.Run("Duplicate", func(t *testing.T) {
		resp := post(t, env.app, "/auth/accounts", CredentialsRequest{Email: "ana@example.com", Password: "secret1"}, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "E-mail já cadastrado.", decode[map[string]string](t, resp)["message"])
	})

	t.Run("MissingFields", func(t *testing.T) {
		resp := post(t, env.app, "/auth/accounts", CredentialsRequest{Email: "ana@example.com"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Preencha todos os campos", decode[map[string]string](t, resp)["message"])
	})

	t.Run("WeakPassword", func(t *testing.T) {
		resp := post(t, env.app, "/auth/accounts", CredentialsRequest{Email: "bob@example.com", Password: "123"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Entrada inválida. Verifique os dados informados.", decode[map[string]string](t, resp)["message"])
	})
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupApp(t)
	_, err := env.accounts.Register(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		resp := post(t, env.app, "/auth/login", CredentialsRequest{Email: "ana@example.com", Password: "secret1"}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[LoginResponse](t, resp)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "SUCCESS", body.State.State)
		require.NotNil(t, body.State.Data)
		assert.Equal(t, "Login bem-sucedido!", *body.State.Data)

		s, ok := env.registry.Get(body.Token)
		require.True(t, ok)
		user, ok := s.Auth.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		before := env.registry.Len()

		resp := post(t, env.app, "/auth/login", CredentialsRequest{Email: "ana@example.com", Password: "nope123"}, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decode[LoginResponse](t, resp)
		assert.Empty(t, body.Token)
		assert.Equal(t, "ERROR", body.State.State)
		assert.Equal(t, "E-mail ou senha incorretos.", body.State.Message)
		assert.Equal(t, before, env.registry.Len(), "failed sign-in must not leave a session behind")
	})

	t.Run("UnknownUser", func(t *testing.T) {
		resp := post(t, env.app, "/auth/login", CredentialsRequest{Email: "zoe@example.com", Password: "secret1"}, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Usuário não encontrado ou desativado.", decode[LoginResponse](t, resp).State.Message)
	})

	t.Run("MissingFields", func(t *testing.T) {
		resp := post(t, env.app, "/auth/login", CredentialsRequest{Email: " "}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("ReusesBearerSession", func(t *testing.T) {
		s, err := env.registry.Create()
		require.NoError(t, err)

		resp := post(t, env.app, "/auth/login", CredentialsRequest{Email: "ana@example.com", Password: "secret1"}, s.Token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, s.Token, decode[LoginResponse](t, resp).Token)
	})
}

func TestAuthHandler_SignInWithFederatedToken(t *testing.T) {
	env := setupApp(t)

	t.Run("Success", func(t *testing.T) {
		resp := post(t, env.app, "/auth/federated", FederatedRequest{IDToken: "good"}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[LoginResponse](t, resp)
		require.NotNil(t, body.State.Data)
		assert.Equal(t, "Login com Google bem-sucedido!", *body.State.Data)
	})

	t.Run("Rejected", func(t *testing.T) {
		resp := post(t, env.app, "/auth/federated", FederatedRequest{IDToken: "expired"}, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Erro de autenticação: token inválido", decode[LoginResponse](t, resp).State.Message)
	})

	t.Run("MissingToken", func(t *testing.T) {
		resp := post(t, env.app, "/auth/federated", FederatedRequest{}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupApp(t)

	s, err := env.registry.Create()
	require.NoError(t, err)

	resp := post(t, env.app, "/auth/logout", nil, s.Token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, ok := env.registry.Get(s.Token)
	assert.False(t, ok)

	resp = post(t, env.app, "/auth/logout", nil, s.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
