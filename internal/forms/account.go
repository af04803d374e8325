package forms

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

const minPasswordLength = 8

// Registration copy
const (
	Registered          = "Usuário cadastrado com sucesso"
	RegisterFailed      = "Erro ao cadastrar o Usuário"
	InconsistentSignUp  = "Dados inconsistentes. Verifique as informações de cadastro."
	FieldConfirmarSenha = models.Field("confirmarSenha")
)

// Authenticator is the write side of the session store
type Authenticator interface {
	Login(ctx context.Context, credentials models.UsuarioLogin) (auth.Session, error)
}

// LoginController drives the login form
type LoginController struct {
	store   Authenticator
	creds   models.UsuarioLogin
	loading bool
}

// NewLoginController starts with empty credentials
func NewLoginController(store Authenticator) *LoginController {
	return &LoginController{store: store}
}

// Credentials returns the credentials typed so far
func (c *LoginController) Credentials() models.UsuarioLogin { return c.creds }

// Loading reports whether a login is in flight
func (c *LoginController) Loading() bool { return c.loading }

// Edit replaces the usuario or senha field
func (c *LoginController) Edit(field models.Field, value string) error {
	next, err := c.creds.With(field, value)
	if err != nil {
		return err
	}
	c.creds = next
	return nil
}

// BeginSubmit starts the login unless one is already running
func (c *LoginController) BeginSubmit() (Call[auth.Session], bool) {
	if c.loading {
		return nil, false
	}
	c.loading = true
	store, creds := c.store, c.creds
	return func(ctx context.Context) (auth.Session, error) {
		return store.Login(ctx, creds)
	}, true
}

// FinishSubmit sends the user home on success; the password is not kept
func (c *LoginController) FinishSubmit(err error) Outcome {
	c.loading = false
	if err != nil {
		if cancelled(err) {
			return Outcome{}
		}
		log.Warn().Err(err).Str("usuario", c.creds.Usuario).Msg("login failed")
		return Outcome{Notice: notify.NewError(notify.LoginFailed)}
	}
	c.creds.Senha = ""
	return Outcome{Navigate: routes.Home, Notice: notify.NewSuccess(notify.LoggedIn)}
}

// Submit runs a login synchronously
func (c *LoginController) Submit(ctx context.Context) Outcome {
	call, ok := c.BeginSubmit()
	if !ok {
		return Outcome{}
	}
	_, err := call(ctx)
	return c.FinishSubmit(err)
}

// Registrar creates user accounts
type Registrar interface {
	Register(ctx context.Context, usuario models.Usuario) (models.Usuario, error)
}

// RegisterController drives the sign-up form
type RegisterController struct {
	registrar   Registrar
	usuario     models.Usuario
	confirmacao string
	loading     bool
}

// NewRegisterController starts with an empty sign-up form
func NewRegisterController(registrar Registrar) *RegisterController {
	return &RegisterController{registrar: registrar}
}

// Usuario returns the account being filled in
func (c *RegisterController) Usuario() models.Usuario { return c.usuario }

// Confirmacao returns the repeated password
func (c *RegisterController) Confirmacao() string { return c.confirmacao }

// Loading reports whether a registration is in flight
func (c *RegisterController) Loading() bool { return c.loading }

// Edit replaces one account field or the password confirmation
func (c *RegisterController) Edit(field models.Field, value string) error {
	if field == FieldConfirmarSenha {
		c.confirmacao = value
		return nil
	}
	next, err := c.usuario.With(field, value)
	if err != nil {
		return err
	}
	c.usuario = next
	return nil
}

// Cancel goes back to the login view
func (c *RegisterController) Cancel() Outcome {
	return Outcome{Navigate: routes.Login}
}

// BeginSubmit validates the passwords and starts the registration. When
// validation fails no call is returned and the outcome carries the notice;
// both password fields are cleared.
func (c *RegisterController) BeginSubmit() (Call[models.Usuario], Outcome, bool) {
	if c.loading {
		return nil, Outcome{}, false
	}
	if c.confirmacao != c.usuario.Senha || len(c.usuario.Senha) < minPasswordLength {
		c.usuario.Senha = ""
		c.confirmacao = ""
		return nil, Outcome{Notice: notify.NewError(InconsistentSignUp)}, false
	}
	c.loading = true
	registrar, usuario := c.registrar, c.usuario
	return func(ctx context.Context) (models.Usuario, error) {
		return registrar.Register(ctx, usuario)
	}, Outcome{}, true
}

// FinishSubmit returns to the login view on success and stays on the form otherwise
func (c *RegisterController) FinishSubmit(created models.Usuario, err error) Outcome {
	c.loading = false
	if err != nil {
		if cancelled(err) {
			return Outcome{}
		}
		log.Warn().Err(err).Str("usuario", c.usuario.Usuario).Msg("registration failed")
		return Outcome{Notice: notify.NewError(RegisterFailed)}
	}
	log.Info().Int64("user_id", created.ID).Str("usuario", created.Usuario).Msg("registered")
	return Outcome{Navigate: routes.Login, Notice: notify.NewSuccess(Registered)}
}

// Submit runs a registration synchronously
func (c *RegisterController) Submit(ctx context.Context) Outcome {
	call, out, ok := c.BeginSubmit()
	if !ok {
		return out
	}
	created, err := call(ctx)
	return c.FinishSubmit(created, err)
}

// Logout ends the session from the navigation bar
func Logout(session Session) Outcome {
	session.Logout()
	return Outcome{Navigate: routes.Login, Notice: notify.NewInfo(notify.LoggedOut), LoggedOut: true}
}
