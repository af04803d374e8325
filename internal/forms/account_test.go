package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

func TestLoginSuccess(t *testing.T) {
	store := auth.NewStore(fakeAuthenticator{})
	login := NewLoginController(store)
	require.NoError(t, login.Edit(models.FieldUsuario, "maria@email.com"))
	require.NoError(t, login.Edit(models.FieldSenha, "12345678"))

	out := login.Submit(context.Background())

	assert.Equal(t, Outcome{Navigate: routes.Home, Notice: notify.NewSuccess(notify.LoggedIn)}, out)
	assert.Equal(t, "Bearer ok", store.Token())
	assert.Empty(t, login.Credentials().Senha)
	assert.False(t, login.Loading())
}

func TestLoginFailure(t *testing.T) {
	store := auth.NewStore(fakeAuthenticator{err: api.ErrInvalidCredentials})
	login := NewLoginController(store)
	require.NoError(t, login.Edit(models.FieldUsuario, "maria@email.com"))

	out := login.Submit(context.Background())

	assert.Equal(t, Outcome{Notice: notify.NewError("Dados do usuário inconsistentes")}, out)
	assert.Equal(t, "", store.Token())
	assert.Equal(t, "maria@email.com", login.Credentials().Usuario)
}

func TestLoginRejectsUnknownField(t *testing.T) {
	login := NewLoginController(auth.NewStore(fakeAuthenticator{}))
	var unknown *models.UnknownFieldError
	assert.True(t, errors.As(login.Edit(models.FieldTitulo, "x"), &unknown))
}

type fakeRegistrar struct {
	calls []models.Usuario
	err   error
}

func (f *fakeRegistrar) Register(_ context.Context, usuario models.Usuario) (models.Usuario, error) {
	f.calls = append(f.calls, usuario)
	if f.err != nil {
		return models.Usuario{}, f.err
	}
	usuario.ID = 1
	usuario.Senha = ""
	return usuario, nil
}

func fillRegistration(t *testing.T, c *RegisterController, senha, confirmacao string) {
	t.Helper()
	require.NoError(t, c.Edit(models.FieldNome, "Maria"))
	require.NoError(t, c.Edit(models.FieldUsuario, "maria@email.com"))
	require.NoError(t, c.Edit(models.FieldSenha, senha))
	require.NoError(t, c.Edit(FieldConfirmarSenha, confirmacao))
}

func TestRegisterSuccess(t *testing.T) {
	registrar := &fakeRegistrar{}
	c := NewRegisterController(registrar)
	fillRegistration(t, c, "12345678", "12345678")

	out := c.Submit(context.Background())

	assert.Equal(t, Outcome{Navigate: routes.Login, Notice: notify.NewSuccess("Usuário cadastrado com sucesso")}, out)
	require.Len(t, registrar.calls, 1)
	assert.Equal(t, "Maria", registrar.calls[0].Nome)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name        string
		senha       string
		confirmacao string
	}{
		{name: "mismatch", senha: "12345678", confirmacao: "87654321"},
		{name: "too short", senha: "1234567", confirmacao: "1234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registrar := &fakeRegistrar{}
			c := NewRegisterController(registrar)
			fillRegistration(t, c, tt.senha, tt.confirmacao)

			out := c.Submit(context.Background())

			assert.Equal(t, Outcome{Notice: notify.NewError(InconsistentSignUp)}, out)
			assert.Empty(t, registrar.calls)
			assert.Empty(t, c.Usuario().Senha)
			assert.Empty(t, c.Confirmacao())
			assert.Equal(t, "Maria", c.Usuario().Nome)
		})
	}
}

func TestRegisterBackendFailure(t *testing.T) {
	c := NewRegisterController(&fakeRegistrar{err: &api.StatusError{Method: "POST", Path: "/usuarios/cadastrar", Status: 400}})
	fillRegistration(t, c, "12345678", "12345678")

	out := c.Submit(context.Background())

	assert.Equal(t, Outcome{Notice: notify.NewError(RegisterFailed)}, out)
	assert.False(t, c.Loading())
}

func TestRegisterCancel(t *testing.T) {
	assert.Equal(t, Outcome{Navigate: routes.Login}, NewRegisterController(&fakeRegistrar{}).Cancel())
}

func TestLogout(t *testing.T) {
	store := loggedInStore()
	out := Logout(store)
	assert.Equal(t, "", store.Token())
	assert.Equal(t, routes.Login, out.Navigate)
	assert.Equal(t, notify.NewInfo("Usuário deslogado com sucesso"), out.Notice)
}
