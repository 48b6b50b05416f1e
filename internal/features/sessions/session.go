// Package sessions bundles the per-client authenticator and orchestrators
// and keeps them addressable by an opaque bearer token.
package sessions

import (
	"context"
	"sync"
	"time"

	"sales-manager/internal/core/identity"
	"sales-manager/internal/core/viewstate"
	authports "sales-manager/internal/features/auth/ports"
	authservice "sales-manager/internal/features/auth/service"
	orderports "sales-manager/internal/features/orders/ports"
	orderservice "sales-manager/internal/features/orders/service"
)

// Session is one client's set of screens. Every orchestrator runs on its
// own scope; all scopes resolve identity through Auth.
type Session struct {
	Token     string
	CreatedAt time.Time

	Auth     *authservice.Authenticator
	Login    *authservice.Login
	AddOrder *orderservice.AddOrder
	AddItem  *orderservice.AddItem
	Orders   *orderservice.OrderList
	Items    *orderservice.ItemList

	scopes    []*viewstate.Scope
	closeOnce sync.Once
}

// Close stops every orchestrator scope and waits for running actions.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, scope := range s.scopes {
			scope.Close()
		}
	})
}

// Factory builds sessions over dependencies shared by the whole process.
type Factory struct {
	accounts authports.AccountRegistry
	tokens   authports.TokenVerifier
	limiter  authports.AttemptLimiter
	orders   orderports.OrderGateway
	now      func() time.Time
}

// NewFactory creates a Factory. The order gateway is used by every session;
// it tells users apart through the identity carried on each session's context.
func NewFactory(
	accounts authports.AccountRegistry,
	tokens authports.TokenVerifier,
	limiter authports.AttemptLimiter,
	orders orderports.OrderGateway,
) *Factory {
	return &Factory{
		accounts: accounts,
		tokens:   tokens,
		limiter:  limiter,
		orders:   orders,
		now:      time.Now,
	}
}

// New creates a signed-out session identified by token.
func (f *Factory) New(parent context.Context, token string) *Session {
	auth := authservice.NewAuthenticator(f.accounts, f.tokens, f.limiter)
	ctx := identity.WithResolver(parent, auth)

	s := &Session{
		Token:     token,
		CreatedAt: f.now(),
		Auth:      auth,
	}
	scope := func() *viewstate.Scope {
		sc := viewstate.NewScope(ctx)
		s.scopes = append(s.scopes, sc)
		return sc
	}

	s.Login = authservice.NewLogin(auth, scope())
	s.AddOrder = orderservice.NewAddOrder(f.orders, scope())
	s.AddItem = orderservice.NewAddItem(f.orders, scope())
	s.Orders = orderservice.NewOrderList(f.orders, scope())
	s.Items = orderservice.NewItemList(f.orders, scope())
	return s
}
