package forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/mockapi"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

type requestLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *requestLog) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		l.lines = append(l.lines, r.Method+" "+r.URL.Path)
		l.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (l *requestLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func TestTemaLifecycleAgainstBackend(t *testing.T) {
	backend, err := mockapi.New(time.Hour)
	require.NoError(t, err)
	reqs := &requestLog{}
	ts := httptest.NewServer(reqs.wrap(backend.Handler()))
	t.Cleanup(ts.Close)

	ctx := context.Background()
	client := api.New(ts.URL, 5*time.Second)
	_, err = client.Register(ctx, models.Usuario{Nome: "Maria", Usuario: "maria@email.com", Senha: "12345678"})
	require.NoError(t, err)

	store := auth.NewStore(client)
	login := NewLoginController(store)
	require.NoError(t, login.Edit(models.FieldUsuario, "maria@email.com"))
	require.NoError(t, login.Edit(models.FieldSenha, "12345678"))
	require.Equal(t, routes.Home, login.Submit(ctx).Navigate)

	cfg := Config[models.Tema]{Repository: api.Temas(client), Session: store, Resource: TemaResource}
	create := NewFormController[models.Tema](cfg, 0)
	require.NoError(t, create.Edit(models.FieldDescricao, "Culinária"))
	require.Equal(t, routes.Temas, create.Submit(ctx).Navigate)
	id := create.Entity().ID
	require.NotZero(t, id)

	del := NewDeleteController[models.Tema](cfg, id)
	require.Equal(t, "", del.Load(ctx).Navigate)
	assert.Equal(t, "Culinária", del.Entity().Descricao)
	assert.Equal(t, routes.Temas, del.Confirm(ctx).Navigate)

	list := NewListController[models.Tema](api.Temas(client), store, TemaResource)
	list.Load(ctx)
	assert.Empty(t, list.Items())

	path := api.Temas(client).ItemPath(id)
	assert.Contains(t, reqs.snapshot(), "DELETE "+path)

	require.NoError(t, backend.ExpireSessions())
	out := list.Load(ctx)
	assert.True(t, out.LoggedOut)
	assert.Equal(t, "", store.Token())
}
