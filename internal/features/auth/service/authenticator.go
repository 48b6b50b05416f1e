package service

import (
	"context"
	"sync"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/features/auth/domain"
	"sales-manager/internal/features/auth/ports"

	"go.uber.org/zap"
)

// Confirmation messages returned by a successful sign-in.
const (
	ConfirmLogin          = "Login bem-sucedido!"
	ConfirmFederatedLogin = "Login com Google bem-sucedido!"
)

// Authenticator is the auth half of the gateway for one session.
// It remembers who signed in and resolves that identity for the order gateway.
type Authenticator struct {
	registry ports.AccountRegistry
	verifier ports.TokenVerifier
	limiter  ports.AttemptLimiter
	logger   *zap.Logger

	mu   sync.RWMutex
	user *domain.User
}

// NewAuthenticator creates a signed-out authenticator. limiter may be nil.
func NewAuthenticator(registry ports.AccountRegistry, verifier ports.TokenVerifier, limiter ports.AttemptLimiter) *Authenticator {
	return &Authenticator{
		registry: registry,
		verifier: verifier,
		limiter:  limiter,
		logger:   logger.Named("authenticator"),
	}
}

// Login signs in with e-mail and password.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, error) {
	key := domain.NormalizeEmail(email)
	if a.limiter != nil && !a.limiter.Allow(key) {
		a.logger.Warn("Login rate limited")
		return "", failure.Auth(failure.CauseTooManyRequests, "", nil)
	}

	user, err := a.registry.Verify(ctx, email, password)
	if err != nil {
		return "", err
	}

	a.signIn(user)
	return ConfirmLogin, nil
}

// SignInWithFederatedToken signs in with an identity token from the federated provider.
func (a *Authenticator) SignInWithFederatedToken(ctx context.Context, token string) (string, error) {
	user, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return "", err
	}

	a.signIn(user)
	return ConfirmFederatedLogin, nil
}

// Register creates an e-mail/password account. It does not sign in.
func (a *Authenticator) Register(ctx context.Context, email, password string) (domain.Account, error) {
	return a.registry.Register(ctx, email, password)
}

// Logout forgets the current user.
func (a *Authenticator) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
}

// CurrentUser returns the signed-in user, if any.
func (a *Authenticator) CurrentUser() (domain.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return domain.User{}, false
	}
	return *a.user, true
}

// CurrentUserID implements identity.Resolver.
func (a *Authenticator) CurrentUserID() (string, bool) {
	user, ok := a.CurrentUser()
	return user.ID, ok
}

func (a *Authenticator) signIn(user domain.User) {
	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()

	a.logger.Info("User signed in", zap.String("uid", user.ID), zap.String("provider", string(user.Provider)))
}
