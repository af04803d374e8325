package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

type fakeAuthenticator struct {
	identity models.UsuarioLogin
	err      error
	calls    []models.UsuarioLogin
}

func (f *fakeAuthenticator) Login(_ context.Context, credentials models.UsuarioLogin) (models.UsuarioLogin, error) {
	f.calls = append(f.calls, credentials)
	return f.identity, f.err
}

func TestStoreStartsLoggedOut(t *testing.T) {
	store := NewStore(&fakeAuthenticator{})
	assert.Equal(t, "", store.Token())
	assert.False(t, store.Session().Authenticated())
}

func TestLoginAndLogout(t *testing.T) {
	fake := &fakeAuthenticator{identity: models.UsuarioLogin{
		ID: 3, Nome: "Maria", Usuario: "maria@email.com", Foto: "https://i.imgur.com/m.png", Token: "Bearer t",
	}}
	store := NewStore(fake)

	session, err := store.Login(context.Background(), models.UsuarioLogin{Usuario: "maria@email.com", Senha: "12345678"})
	require.NoError(t, err)

	assert.Equal(t, Session{Token: "Bearer t", UserID: 3, Nome: "Maria", Usuario: "maria@email.com", Foto: "https://i.imgur.com/m.png"}, session)
	assert.Equal(t, "Bearer t", store.Token())
	assert.Equal(t, &models.Usuario{ID: 3}, store.Session().Author())
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "12345678", fake.calls[0].Senha)

	store.Logout()
	assert.Equal(t, "", store.Token())
	assert.Equal(t, Session{}, store.Session())

	store.Logout()
	assert.Equal(t, "", store.Token())
}

func TestLoginRejected(t *testing.T) {
	store := NewStore(&fakeAuthenticator{err: &api.StatusError{Status: 401}})

	_, err := store.Login(context.Background(), models.UsuarioLogin{Usuario: "x", Senha: "y"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
	assert.Equal(t, "", store.Token())
}

func TestLoginWithoutTokenIsRejected(t *testing.T) {
	store := NewStore(&fakeAuthenticator{identity: models.UsuarioLogin{ID: 1}})

	_, err := store.Login(context.Background(), models.UsuarioLogin{})
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
}

func TestLoginTransportFailureKeepsPreviousSession(t *testing.T) {
	fake := &fakeAuthenticator{identity: models.UsuarioLogin{ID: 1, Token: "Bearer a"}}
	store := NewStore(fake)
	_, err := store.Login(context.Background(), models.UsuarioLogin{})
	require.NoError(t, err)

	fake.err = errors.New("connection refused")
	_, err = store.Login(context.Background(), models.UsuarioLogin{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
	assert.Equal(t, "Bearer a", store.Token())
}

func TestGuardRedirectsOnEmptyToken(t *testing.T) {
	var g Guard

	redirect, ok := g.Observe("")
	require.True(t, ok)
	assert.Equal(t, Redirect{Route: routes.Login, Notice: notify.NewInfo(notify.MustBeLoggedIn)}, redirect)

	_, ok = g.Observe("")
	assert.False(t, ok, "unchanged token must not redirect again")
}

func TestGuardFiresWhenTokenIsCleared(t *testing.T) {
	var g Guard

	_, ok := g.Observe("Bearer a")
	assert.False(t, ok)
	_, ok = g.Observe("Bearer a")
	assert.False(t, ok)

	redirect, ok := g.Observe("")
	require.True(t, ok)
	assert.Equal(t, routes.Login, redirect.Route)
}

func TestGuardDependsOnlyOnToken(t *testing.T) {
	for _, prior := range []string{"", "Bearer a", "Bearer b"} {
		var g Guard
		if prior != "" {
			g.Observe(prior)
		}
		redirect, ok := g.Observe("")
		require.True(t, ok, "prior token %q", prior)
		assert.Equal(t, routes.Login, redirect.Route)
	}
}
