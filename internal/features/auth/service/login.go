package service

import (
	"context"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/viewstate"
	"sales-manager/internal/features/auth/ports"

	"go.uber.org/zap"
)

// Login drives the sign-in screen. Success carries the confirmation message.
type Login struct {
	gateway ports.AuthGateway
	scope   *viewstate.Scope
	state   *viewstate.Stream[string]
	logger  *zap.Logger
}

// NewLogin creates the orchestrator with its stream in Idle.
func NewLogin(gateway ports.AuthGateway, scope *viewstate.Scope) *Login {
	return &Login{
		gateway: gateway,
		scope:   scope,
		state:   viewstate.NewStream[string](),
		logger:  logger.Named("login"),
	}
}

// State returns the read-only sign-in stream.
func (o *Login) State() viewstate.Observable[string] {
	return o.state
}

// Login signs in with e-mail and password.
func (o *Login) Login(email, password string) *viewstate.Job {
	return o.scope.Start(o.loading, func(ctx context.Context) {
		confirmation, err := o.gateway.Login(ctx, email, password)
		if err != nil {
			o.logger.Info("Login failed", zap.String("cause", string(failure.CauseOf(err))))
			o.state.Publish(viewstate.Failed[string](failure.LoginMessage(failure.Describe(err))))
			return
		}
		o.state.Publish(viewstate.Success(confirmation))
	})
}

// SignInWithFederatedToken signs in with a federated identity token.
// Failures other than provider rejections surface as an unknown error.
func (o *Login) SignInWithFederatedToken(token string) *viewstate.Job {
	return o.scope.Start(o.loading, func(ctx context.Context) {
		confirmation, err := o.gateway.SignInWithFederatedToken(ctx, token)
		if err != nil {
			o.logger.Info("Federated sign-in failed", zap.String("cause", string(failure.CauseOf(err))))
			o.state.Publish(viewstate.Failed[string](failure.FederatedMessage(failure.Describe(err))))
			return
		}
		o.state.Publish(viewstate.Success(confirmation))
	})
}

func (o *Login) loading() {
	o.state.Publish(viewstate.Loading[string]())
}

// Reset puts the stream back to Idle, used after logout.
func (o *Login) Reset() {
	o.state.Publish(viewstate.Idle[string]())
}
