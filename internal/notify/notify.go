package notify

// Level classifies a notification the way the toast line colours it
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "sucesso"
	case Error:
		return "erro"
	default:
		return "info"
	}
}

// Notice is a transient, user-visible message
type Notice struct {
	Level Level
	Text  string
}

func NewInfo(text string) Notice    { return Notice{Level: Info, Text: text} }
func NewSuccess(text string) Notice { return Notice{Level: Success, Text: text} }
func NewError(text string) Notice   { return Notice{Level: Error, Text: text} }

// Fixed copy shared by every view
const (
	MustBeLoggedIn = "Você precisa estar logado"
	TokenExpired   = "O token expirou, favor logar novamente"
	LoggedIn       = "Usuário logado com sucesso"
	LoggedOut      = "Usuário deslogado com sucesso"
	LoginFailed    = "Dados do usuário inconsistentes"
)
