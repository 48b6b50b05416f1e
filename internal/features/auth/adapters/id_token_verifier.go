package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/features/auth/domain"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// IDTokenVerifier implements ports.TokenVerifier for Google ID tokens.
// Signatures are checked locally against Google's published certificates,
// fetched through the given client.
type IDTokenVerifier struct {
	validator *idtoken.Validator
	clientID  string
}

// NewIDTokenVerifier creates a verifier. An empty clientID skips the audience check.
func NewIDTokenVerifier(ctx context.Context, client *http.Client, clientID string) (*IDTokenVerifier, error) {
	validator, err := idtoken.NewValidator(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create id token validator: %w", err)
	}
	return &IDTokenVerifier{validator: validator, clientID: clientID}, nil
}

// Verify checks token and returns the identity it was issued to.
func (v *IDTokenVerifier) Verify(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, failure.Auth(failure.CauseProvider, "token não informado", nil)
	}

	// Claim checks run before the signature check.
	claims, err := idtoken.ParsePayload(token)
	if err != nil {
		return domain.User{}, failure.Auth(failure.CauseProvider, "token inválido", err)
	}
	if v.clientID != "" && claims.Audience != v.clientID {
		return domain.User{}, failure.Auth(failure.CauseProvider, "token emitido para outro aplicativo", nil)
	}
	if time.Now().Unix() > claims.Expires {
		return domain.User{}, failure.Auth(failure.CauseProvider, "token expirado", nil)
	}
	if !googleIssuers[claims.Issuer] {
		return domain.User{}, failure.Auth(failure.CauseProvider, "emissor do token desconhecido", nil)
	}

	payload, err := v.validator.Validate(ctx, token, v.clientID)
	if err != nil {
		if transportError(err) {
			return domain.User{}, failure.Auth(failure.CauseNetwork, "", err)
		}
		return domain.User{}, failure.Auth(failure.CauseProvider, "token inválido", err)
	}
	if payload.Subject == "" {
		return domain.User{}, failure.Auth(failure.CauseProvider, "token sem identificador de usuário", nil)
	}

	email, _ := payload.Claims["email"].(string)
	return domain.User{
		ID:       "google-" + payload.Subject,
		Email:    domain.NormalizeEmail(email),
		Provider: domain.ProviderFederated,
	}, nil
}

// transportError reports whether err comes from fetching the certificates
// rather than from the token itself.
func transportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "unable to retrieve cert")
}
