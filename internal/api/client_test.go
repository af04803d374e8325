package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strrl/blogpessoal/internal/mockapi"
	"github.com/strrl/blogpessoal/pkg/models"
)

func newBackend(t *testing.T) (*mockapi.Server, *Client) {
	t.Helper()
	srv, err := mockapi.New(time.Hour)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, New(ts.URL+"/", 5*time.Second)
}

func loginAs(t *testing.T, client *Client) models.UsuarioLogin {
	t.Helper()
	ctx := context.Background()
	_, err := client.Register(ctx, models.Usuario{Nome: "Maria", Usuario: "maria@email.com", Senha: "12345678"})
	require.NoError(t, err)
	identity, err := client.Login(ctx, models.UsuarioLogin{Usuario: "maria@email.com", Senha: "12345678"})
	require.NoError(t, err)
	return identity
}

func TestLogin(t *testing.T) {
	_, client := newBackend(t)
	identity := loginAs(t, client)

	assert.NotZero(t, identity.ID)
	assert.Equal(t, "Maria", identity.Nome)
	assert.Contains(t, identity.Token, "Bearer ")
	assert.Empty(t, identity.Senha)

	_, err := client.Login(context.Background(), models.UsuarioLogin{Usuario: "maria@email.com", Senha: "errada123"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
}

func TestCreateThenFetchRoundTrip(t *testing.T) {
	_, client := newBackend(t)
	token := loginAs(t, client).Token
	temas := Temas(client)
	ctx := context.Background()

	submitted := models.Tema{Descricao: "Esportes"}
	created, err := temas.Create(ctx, submitted, token)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := temas.FetchByID(ctx, created.ID, token)
	require.NoError(t, err)

	submitted.ID = created.ID
	if diff := cmp.Diff(submitted, fetched); diff != "" {
		t.Errorf("fetched tema mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateListRemove(t *testing.T) {
	_, client := newBackend(t)
	token := loginAs(t, client).Token
	temas := Temas(client)
	ctx := context.Background()

	created, err := temas.Create(ctx, models.Tema{Descricao: "Esportes"}, token)
	require.NoError(t, err)

	updated, err := temas.Update(ctx, models.Tema{ID: created.ID, Descricao: "Sports"}, token)
	require.NoError(t, err)
	assert.Equal(t, "Sports", updated.Descricao)

	list, err := temas.List(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []models.Tema{{ID: created.ID, Descricao: "Sports"}}, list)

	require.NoError(t, temas.Remove(ctx, created.ID, token))

	_, err = temas.FetchByID(ctx, created.ID, token)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestErrorClassification(t *testing.T) {
	srv, client := newBackend(t)
	token := loginAs(t, client).Token
	temas := Temas(client)
	ctx := context.Background()

	_, err := temas.Create(ctx, models.Tema{}, token)
	assert.True(t, errors.Is(err, ErrValidation), "got %v", err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, "/temas", statusErr.Path)

	require.NoError(t, srv.ExpireSessions())
	_, err = temas.Update(ctx, models.Tema{ID: 1, Descricao: "x"}, token)
	assert.True(t, IsAuthExpired(err), "got %v", err)

	err = temas.Remove(ctx, 1, token)
	assert.True(t, IsAuthExpired(err), "got %v", err)
}

func TestAuthorizationHeaderIsSentVerbatim(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path+" "+r.Header.Get("Authorization"))
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"descricao":"Filmes"}`))
	}))
	t.Cleanup(ts.Close)

	temas := Temas(New(ts.URL, time.Second))
	ctx := context.Background()

	tema, err := temas.FetchByID(ctx, 7, "Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, models.Tema{ID: 7, Descricao: "Filmes"}, tema)
	require.NoError(t, temas.Remove(ctx, 7, "Bearer abc"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"GET /temas/7 Bearer abc",
		"DELETE /temas/7 Bearer abc",
	}, seen)
}

func TestCancelledContext(t *testing.T) {
	_, client := newBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Temas(client).List(ctx, "Bearer x")
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Method: http.MethodPut, Path: "/temas", Status: http.StatusForbidden}
	assert.Equal(t, "PUT /temas: 403 Forbidden", err.Error())
	assert.True(t, errors.Is(err, ErrAuthExpired))

	err = &StatusError{Method: http.MethodGet, Path: "/postagens", Status: http.StatusBadGateway, Body: "upstream"}
	assert.Equal(t, "GET /postagens: 502 Bad Gateway: upstream", err.Error())
	assert.True(t, errors.Is(err, ErrServer))
}
