package tui

import (
	"context"
	"sync"

	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/pkg/models"
)

type keyed interface {
	Key() int64
}

// memCollection is an in-memory backend collection
type memCollection[T keyed] struct {
	mu      sync.Mutex
	items   []T
	withID  func(T, int64) T
	err     error
	fetched []int64
	updated []T
	created []T
	removed []int64
	lists   int
}

func (c *memCollection[T]) FetchByID(_ context.Context, id int64, _ string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetched = append(c.fetched, id)
	var zero T
	if c.err != nil {
		return zero, c.err
	}
	for _, item := range c.items {
		if item.Key() == id {
			return item, nil
		}
	}
	return zero, &api.StatusError{Method: "GET", Path: "/x", Status: 404}
}

func (c *memCollection[T]) List(context.Context, string) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists++
	if c.err != nil {
		return nil, c.err
	}
	return append([]T(nil), c.items...), nil
}

func (c *memCollection[T]) Create(_ context.Context, payload T, _ string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, payload)
	if c.err != nil {
		var zero T
		return zero, c.err
	}
	saved := c.withID(payload, int64(len(c.items)+100))
	c.items = append(c.items, saved)
	return saved, nil
}

func (c *memCollection[T]) Update(_ context.Context, payload T, _ string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updated = append(c.updated, payload)
	if c.err != nil {
		var zero T
		return zero, c.err
	}
	for i, item := range c.items {
		if item.Key() == payload.Key() {
			c.items[i] = payload
		}
	}
	return payload, nil
}

func (c *memCollection[T]) Remove(_ context.Context, id int64, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, id)
	return c.err
}

func (c *memCollection[T]) failWith(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func newTemas(items ...models.Tema) *memCollection[models.Tema] {
	return &memCollection[models.Tema]{
		items:  items,
		withID: func(t models.Tema, id int64) models.Tema { t.ID = id; return t },
	}
}

func newPostagens(items ...models.Postagem) *memCollection[models.Postagem] {
	return &memCollection[models.Postagem]{
		items:  items,
		withID: func(p models.Postagem, id int64) models.Postagem { p.ID = id; return p },
	}
}

type fakeAuthenticator struct{}

func (fakeAuthenticator) Login(_ context.Context, c models.UsuarioLogin) (models.UsuarioLogin, error) {
	if c.Senha != "12345678" {
		return models.UsuarioLogin{}, api.ErrInvalidCredentials
	}
	return models.UsuarioLogin{ID: 9, Nome: "Maria", Usuario: c.Usuario, Token: "Bearer ok"}, nil
}

type fakeAccounts struct {
	mu    sync.Mutex
	calls []models.Usuario
}

func (f *fakeAccounts) Register(_ context.Context, u models.Usuario) (models.Usuario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, u)
	u.ID = 1
	return u, nil
}

type fixture struct {
	session   *auth.Store
	accounts  *fakeAccounts
	temas     *memCollection[models.Tema]
	postagens *memCollection[models.Postagem]
}

func newFixture(loggedIn bool) *fixture {
	f := &fixture{
		session:   auth.NewStore(fakeAuthenticator{}),
		accounts:  &fakeAccounts{},
		temas:     newTemas(models.Tema{ID: 5, Descricao: "Esportes"}, models.Tema{ID: 6, Descricao: "Filmes"}, models.Tema{ID: 7, Descricao: "Culinária"}),
		postagens: newPostagens(models.Postagem{ID: 1, Titulo: "Olá", Texto: "Primeiro *post*", Tema: &models.Tema{ID: 5, Descricao: "Esportes"}}),
	}
	if loggedIn {
		if _, err := f.session.Login(context.Background(), models.UsuarioLogin{Usuario: "maria@email.com", Senha: "12345678"}); err != nil {
			panic(err)
		}
	}
	return f
}

func (f *fixture) deps() Deps {
	return Deps{
		Session:   f.session,
		Accounts:  f.accounts,
		Temas:     f.temas,
		Postagens: f.postagens,
	}
}
