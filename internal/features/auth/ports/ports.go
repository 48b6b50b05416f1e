package ports

import (
	"context"

	"sales-manager/internal/features/auth/domain"
)

// AuthGateway defines the primary port for signing a session in and out.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	SignInWithFederatedToken(ctx context.Context, token string) (string, error)
	Logout()
}

// AccountRegistry defines the secondary port for email/password accounts.
type AccountRegistry interface {
	Register(ctx context.Context, email, password string) (domain.Account, error)
	Verify(ctx context.Context, email, password string) (domain.User, error)
}

// TokenVerifier validates an identity token issued by a federated provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.User, error)
}

// AttemptLimiter throttles sign-in attempts per key.
type AttemptLimiter interface {
	Allow(key string) bool
}
