package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	base := errors.New("connection refused")

	assert.Equal(t, "Usuário não logado", NotAuthenticated().Error())
	assert.Equal(t, "connection refused", Persistence(CauseWrite, "", base).Error())
	assert.Equal(t, "Falha: connection refused", Persistence(CauseWrite, "Falha", base).Error())
	assert.Equal(t, "AUTH/UNKNOWN", Auth(CauseUnknown, "", nil).Error())
}

func TestCauseOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Auth(CauseInvalidCredentials, "", nil))

	assert.Equal(t, CauseInvalidCredentials, CauseOf(err))
	assert.Equal(t, CauseUnknown, CauseOf(errors.New("plain")))
	assert.Equal(t, CauseUnknown, CauseOf(nil))

	fe, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindAuth, fe.Kind)
}

func TestUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := Persistence(CauseRead, "", base)

	assert.ErrorIs(t, err, base)
}

func TestLoginMessage(t *testing.T) {
	tests := []struct {
		cause    Cause
		detail   string
		expected string
	}{
		{CauseInvalidUser, "", "Usuário não encontrado ou desativado."},
		{CauseInvalidCredentials, "", "E-mail ou senha incorretos."},
		{CauseTooManyRequests, "", "Muitas tentativas falhas. Tente novamente mais tarde."},
		{CauseNetwork, "ignored", "Falha na conexão. Verifique sua internet."},
		{CauseInvalidInput, "", "Entrada inválida. Verifique os dados informados."},
		{CauseProvider, "token expired", "Erro de autenticação: token expired"},
		{CauseWrite, "", "Erro desconhecido."},
		{CauseEmailInUse, "E-mail já cadastrado.", "Erro desconhecido."},
		{CauseUnknown, "", "Erro desconhecido."},
	}

	for _, tt := range tests {
		t.Run(string(tt.cause), func(t *testing.T) {
			assert.Equal(t, tt.expected, LoginMessage(tt.cause, tt.detail))
			// Stable for a given cause.
			assert.Equal(t, LoginMessage(tt.cause, tt.detail), LoginMessage(tt.cause, tt.detail))
		})
	}
}

func TestFederatedMessage(t *testing.T) {
	assert.Equal(t, "Erro de autenticação: audience mismatch", FederatedMessage(CauseProvider, "audience mismatch"))
	assert.Equal(t, "Erro desconhecido.", FederatedMessage(CauseNetwork, ""))
	assert.Equal(t, "Erro desconhecido.", FederatedMessage(CauseInvalidCredentials, ""))
}

func TestPersistenceMessage(t *testing.T) {
	t.Run("Detail", func(t *testing.T) {
		assert.Equal(t, "Usuário não logado", PersistenceMessage(NotAuthenticated(), MsgUnknownShort))
	})

	t.Run("UnderlyingError", func(t *testing.T) {
		err := Persistence(CauseWrite, "", errors.New("redis: connection pool timeout"))
		assert.Equal(t, "redis: connection pool timeout", PersistenceMessage(err, MsgUnknownShort))
	})

	t.Run("Fallback", func(t *testing.T) {
		assert.Equal(t, MsgDeleteFailed, PersistenceMessage(Persistence(CauseWrite, "", nil), MsgDeleteFailed))
		assert.Equal(t, MsgUnknownShort, PersistenceMessage(nil, MsgUnknownShort))
	})

	t.Run("ForeignError", func(t *testing.T) {
		assert.Equal(t, "boom", PersistenceMessage(errors.New("boom"), MsgUnknownShort))
		assert.Equal(t, MsgUnknownShort, PersistenceMessage(errors.New(""), MsgUnknownShort))
	})
}

func TestDescribe(t *testing.T) {
	cause, detail := Describe(Auth(CauseProvider, "rejected", nil))
	assert.Equal(t, CauseProvider, cause)
	assert.Equal(t, "rejected", detail)

	cause, detail = Describe(errors.New("x"))
	assert.Equal(t, CauseUnknown, cause)
	assert.Empty(t, detail)
}
