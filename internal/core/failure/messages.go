package failure

// Fallback messages used when a failure carries no description of its own.
const (
	MsgUnknown       = "Erro desconhecido."
	MsgUnknownShort  = "Erro desconhecido"
	MsgDeleteFailed  = "Erro ao excluir o item"
	MsgMissingFields = "Preencha todos os campos"
)

var loginMessages = map[Cause]string{
	CauseInvalidUser:        "Usuário não encontrado ou desativado.",
	CauseInvalidCredentials: "E-mail ou senha incorretos.",
	CauseTooManyRequests:    "Muitas tentativas falhas. Tente novamente mais tarde.",
	CauseNetwork:            "Falha na conexão. Verifique sua internet.",
	CauseInvalidInput:       "Entrada inválida. Verifique os dados informados.",
}

// LoginMessage maps an e-mail/password sign-in failure to its user-facing text.
func LoginMessage(cause Cause, detail string) string {
	if cause == CauseProvider {
		return providerMessage(detail)
	}
	if msg, ok := loginMessages[cause]; ok {
		return msg
	}
	return MsgUnknown
}

// FederatedMessage maps a federated-token sign-in failure to its user-facing text.
// Only provider rejections are distinguished.
func FederatedMessage(cause Cause, detail string) string {
	if cause == CauseProvider {
		return providerMessage(detail)
	}
	return MsgUnknown
}

// PersistenceMessage surfaces the failure's own description, or fallback when it has none.
func PersistenceMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if fe, ok := As(err); ok {
		if fe.Detail != "" {
			return fe.Detail
		}
		if fe.Err != nil && fe.Err.Error() != "" {
			return fe.Err.Error()
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Describe splits err into the cause and detail the message functions take.
func Describe(err error) (Cause, string) {
	if fe, ok := As(err); ok {
		return fe.Cause, fe.Detail
	}
	return CauseUnknown, ""
}

func providerMessage(detail string) string {
	return "Erro de autenticação: " + detail
}
