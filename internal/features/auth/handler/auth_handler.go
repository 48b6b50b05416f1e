package handler

import (
	"net/http"
	"strings"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/server"
	"sales-manager/internal/core/viewstate"
	"sales-manager/internal/features/auth/ports"
	"sales-manager/internal/features/sessions"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles account registration and session sign-in.
type AuthHandler struct {
	accounts ports.AccountRegistry
	sessions *sessions.Registry
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts ports.AccountRegistry, registry *sessions.Registry) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: registry,
	}
}

// CredentialsRequest is the body of registration and e-mail login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FederatedRequest is the body of a federated sign-in.
type FederatedRequest struct {
	IDToken string `json:"idToken"`
}

// AccountResponse describes a newly registered account.
type AccountResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// LoginResponse carries the session token and the final sign-in state.
type LoginResponse struct {
	Token string                       `json:"token,omitempty"`
	State server.StateResponse[string] `json:"login"`
}

// Register handles POST /auth/accounts.
// @Summary Register an account
// @Description Creates an e-mail/password account. It does not sign in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Credentials"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Failure 503 {object} server.ErrorResponse
// @Router /auth/accounts [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, failure.LoginMessage(failure.CauseInvalidInput, ""))
	}
	if blank(req.Email) || req.Password == "" {
		return server.Fail(c, http.StatusBadRequest, failure.MsgMissingFields)
	}

	account, err := h.accounts.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		cause, detail := failure.Describe(err)
		switch cause {
		case failure.CauseInvalidInput:
			return server.Fail(c, http.StatusBadRequest, failure.LoginMessage(cause, detail))
		case failure.CauseEmailInUse:
			return server.Fail(c, http.StatusConflict, detail)
		case failure.CauseNetwork:
			return server.Fail(c, http.StatusServiceUnavailable, failure.LoginMessage(cause, detail))
		}
		logger.ForRequest(server.RayID(c)).Error("Failed to register account",
			zap.Error(err),
		)
		return server.Fail(c, http.StatusInternalServerError, failure.MsgUnknown)
	}

	return c.Status(http.StatusCreated).JSON(AccountResponse{UID: account.UID, Email: account.Email})
}

// Login handles POST /auth/login.
// @Summary Sign in with e-mail and password
// @Description Signs the bearer's session in, creating a session when none is given.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, failure.LoginMessage(failure.CauseInvalidInput, ""))
	}
	if blank(req.Email) || req.Password == "" {
		return server.Fail(c, http.StatusBadRequest, failure.MsgMissingFields)
	}

	return h.signIn(c, func(s *sessions.Session) *viewstate.Job {
		return s.Login.Login(req.Email, req.Password)
	})
}

// SignInWithFederatedToken handles POST /auth/federated.
// @Summary Sign in with a federated identity token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body FederatedRequest true "Identity token"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} LoginResponse
// @Router /auth/federated [post]
func (h *AuthHandler) SignInWithFederatedToken(c *fiber.Ctx) error {
	var req FederatedRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, failure.LoginMessage(failure.CauseInvalidInput, ""))
	}
	if blank(req.IDToken) {
		return server.Fail(c, http.StatusBadRequest, failure.MsgMissingFields)
	}

	return h.signIn(c, func(s *sessions.Session) *viewstate.Job {
		return s.Login.SignInWithFederatedToken(req.IDToken)
	})
}

// Logout handles POST /auth/logout.
// @Summary Sign out and end the session
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} server.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	s.Auth.Logout()
	s.Login.Reset()
	h.sessions.Remove(s.Token)
	return c.SendStatus(http.StatusNoContent)
}

// signIn runs action on the caller's session, or on a fresh one, and waits
// for its terminal state. A fresh session that failed to sign in is dropped.
func (h *AuthHandler) signIn(c *fiber.Ctx, action func(*sessions.Session) *viewstate.Job) error {
	s, existing := h.sessions.Get(sessions.BearerToken(c))
	if !existing {
		var err error
		s, err = h.sessions.Create()
		if err != nil {
			logger.ForRequest(server.RayID(c)).Error("Failed to create session",
				zap.Error(err),
			)
			return server.Fail(c, http.StatusInternalServerError, failure.MsgUnknown)
		}
	}

	job := action(s)
	if job.Refused() {
		return server.Fail(c, http.StatusUnauthorized, "Sessão expirada ou inválida")
	}
	if err := job.Wait(c.UserContext()); err != nil {
		return server.Fail(c, http.StatusGatewayTimeout, failure.MsgUnknown)
	}

	st := s.Login.State().Current()
	if st.Kind != viewstate.KindSuccess {
		if !existing {
			h.sessions.Remove(s.Token)
		}
		return c.Status(http.StatusUnauthorized).JSON(LoginResponse{State: server.RenderState(st)})
	}

	return c.Status(http.StatusOK).JSON(LoginResponse{Token: s.Token, State: server.RenderState(st)})
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
