package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

func temaForm(repo *fakeTemas, store *auth.Store, id int64) *FormController[models.Tema] {
	return NewFormController[models.Tema](Config[models.Tema]{
		Repository: repo,
		Session:    store,
		Resource:   TemaResource,
	}, id)
}

func TestCreateModeNeverFetches(t *testing.T) {
	repo := newFakeTemas(models.Tema{ID: 1, Descricao: "Esportes"})
	form := temaForm(repo, loggedInStore(), 0)

	assert.Equal(t, CreateMode, form.Mode())
	assert.Equal(t, models.Tema{}, form.Entity())
	assert.False(t, form.NeedsLoad())

	_, ok := form.BeginLoad()
	assert.False(t, ok)
	assert.Equal(t, Outcome{}, form.Load(context.Background()))
	assert.Zero(t, repo.count("fetch"))
}

func TestEditModeFetchesExactlyOnce(t *testing.T) {
	repo := newFakeTemas(models.Tema{ID: 5, Descricao: "Esportes"})
	form := temaForm(repo, loggedInStore(), 5)

	assert.Equal(t, EditMode, form.Mode())
	require.True(t, form.NeedsLoad())

	call, ok := form.BeginLoad()
	require.True(t, ok)
	_, again := form.BeginLoad()
	assert.False(t, again, "a fetch in flight must not be duplicated")

	entity, err := call(context.Background())
	assert.Equal(t, Outcome{}, form.FinishLoad(entity, err))
	assert.Equal(t, models.Tema{ID: 5, Descricao: "Esportes"}, form.Entity())

	form.Load(context.Background())
	form.SetID(5)
	form.Load(context.Background())
	assert.Equal(t, 1, repo.count("fetch"))
	assert.Equal(t, "Bearer ok", repo.calls[0].Token)
}

func TestEditModeRefetchesWhenIDChanges(t *testing.T) {
	repo := newFakeTemas(models.Tema{ID: 5, Descricao: "Esportes"}, models.Tema{ID: 6, Descricao: "Filmes"})
	form := temaForm(repo, loggedInStore(), 5)
	form.Load(context.Background())

	form.SetID(6)
	assert.Equal(t, models.Tema{}, form.Entity())
	form.Load(context.Background())

	assert.Equal(t, 2, repo.count("fetch"))
	assert.Equal(t, models.Tema{ID: 6, Descricao: "Filmes"}, form.Entity())
}

func TestRetargetWhileFetchingDropsPreviousRecord(t *testing.T) {
	esportes := models.Tema{ID: 5, Descricao: "Esportes"}
	filmes := models.Tema{ID: 6, Descricao: "Filmes"}
	repo := newFakeTemas(esportes, filmes)
	form := temaForm(repo, loggedInStore(), 5)

	call5, ok := form.BeginLoad()
	require.True(t, ok)
	form.SetID(6)
	require.True(t, form.NeedsLoad(), "the new id must be fetched")

	late, err := call5(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Outcome{}, form.FinishLoad(late, err))
	assert.True(t, form.NeedsLoad())
	assert.Equal(t, models.Tema{}, form.Entity())

	call6, ok := form.BeginLoad()
	require.True(t, ok)
	assert.Equal(t, Outcome{}, form.FinishLoad(late, nil), "a late record for 5 is ignored while 6 is loading")
	assert.True(t, form.Fetching())

	entity, err := call6(context.Background())
	form.FinishLoad(entity, err)
	assert.Equal(t, filmes, form.Entity())
	assert.False(t, form.NeedsLoad())

	form.Submit(context.Background())
	last := repo.calls[len(repo.calls)-1]
	assert.Equal(t, "update", last.Op)
	assert.Equal(t, filmes, last.Payload)
	assert.Equal(t, []string{"fetch", "fetch", "update"}, ops(repo))
}

func TestEditSubmitCarriesRouteID(t *testing.T) {
	repo := newFakeTemas()
	repo.stored[5] = models.Tema{Descricao: "Esportes"}
	form := temaForm(repo, loggedInStore(), 5)
	require.Equal(t, Outcome{}, form.Load(context.Background()))
	require.NoError(t, form.Edit(models.FieldDescricao, "Sports"))

	out := form.Submit(context.Background())

	require.Equal(t, 1, repo.count("update"))
	last := repo.calls[len(repo.calls)-1]
	assert.Equal(t, int64(5), last.ID)
	assert.Equal(t, models.Tema{ID: 5, Descricao: "Sports"}, last.Payload)
	assert.Equal(t, routes.Temas, out.Navigate)
}

func TestEditsMergeIntoLoadedEntity(t *testing.T) {
	form := NewFormController[models.Postagem](Config[models.Postagem]{
		Repository: postagemRepo{},
		Session:    loggedInStore(),
		Resource:   PostagemResource,
	}, 0)

	require.NoError(t, form.Edit(models.FieldTitulo, "R"))
	require.NoError(t, form.Edit(models.FieldTitulo, "Rascunho"))
	require.NoError(t, form.Edit(models.FieldTema, "3"))
	require.NoError(t, form.Edit(models.FieldTexto, "corpo"))
	require.NoError(t, form.Edit(models.FieldTitulo, "Título"))

	want := models.Postagem{Titulo: "Título", Texto: "corpo", Tema: &models.Tema{ID: 3}}
	if diff := cmp.Diff(want, form.Entity()); diff != "" {
		t.Errorf("merged entity mismatch (-want +got):\n%s", diff)
	}

	var unknown *models.UnknownFieldError
	assert.True(t, errors.As(form.Edit(models.FieldDescricao, "x"), &unknown))
	if diff := cmp.Diff(want, form.Entity()); diff != "" {
		t.Errorf("rejected edit changed the entity (-want +got):\n%s", diff)
	}
}

func TestEditRejectedWhileFetching(t *testing.T) {
	form := temaForm(newFakeTemas(models.Tema{ID: 5, Descricao: "Esportes"}), loggedInStore(), 5)
	call, ok := form.BeginLoad()
	require.True(t, ok)

	assert.ErrorIs(t, form.Edit(models.FieldDescricao, "x"), ErrNotReady)

	entity, err := call(context.Background())
	form.FinishLoad(entity, err)
	assert.NoError(t, form.Edit(models.FieldDescricao, "x"))
}

func TestSubmitEditScenario(t *testing.T) {
	repo := newFakeTemas(models.Tema{ID: 5, Descricao: "Esportes"})
	recorder := &fakeRecorder{}
	form := NewFormController[models.Tema](Config[models.Tema]{
		Repository: repo,
		Session:    loggedInStore(),
		Resource:   TemaResource,
		Recorder:   recorder,
	}, 5)
	form.Load(context.Background())
	require.NoError(t, form.Edit(models.FieldDescricao, "Sports"))

	out := form.Submit(context.Background())

	require.Equal(t, 1, repo.count("update"))
	assert.Equal(t, models.Tema{ID: 5, Descricao: "Sports"}, repo.calls[len(repo.calls)-1].Payload)
	assert.Equal(t, Outcome{
		Navigate: routes.Temas,
		Notice:   notify.NewSuccess("Tema atualizado com sucesso"),
	}, out)
	assert.False(t, form.Loading())
	assert.Equal(t, []recorded{{Resource: "tema", Action: ActionUpdate, ID: 5}}, recorder.entries)
}

func TestSubmitCreate(t *testing.T) {
	repo := newFakeTemas()
	recorder := &fakeRecorder{}
	form := NewFormController[models.Tema](Config[models.Tema]{
		Repository: repo,
		Session:    loggedInStore(),
		Resource:   TemaResource,
		Recorder:   recorder,
	}, 0)
	require.NoError(t, form.Edit(models.FieldDescricao, "Viagens"))

	out := form.Submit(context.Background())

	require.Equal(t, 1, repo.count("create"))
	assert.Equal(t, models.Tema{Descricao: "Viagens"}, repo.calls[0].Payload)
	assert.Equal(t, routes.Temas, out.Navigate)
	assert.Equal(t, notify.NewSuccess("Tema cadastrado com sucesso"), out.Notice)
	assert.Equal(t, int64(101), form.Entity().ID)
	assert.Equal(t, []recorded{{Resource: "tema", Action: ActionCreate, ID: 101}}, recorder.entries)
}

func TestSubmitFailureStaysOnForm(t *testing.T) {
	repo := newFakeTemas()
	store := loggedInStore()
	form := temaForm(repo, store, 0)
	require.NoError(t, form.Edit(models.FieldDescricao, "Viagens"))
	repo.err = errBadRequest

	out := form.Submit(context.Background())

	assert.Equal(t, Outcome{Notice: notify.NewError("Erro ao cadastrar o Tema")}, out)
	assert.Equal(t, "Bearer ok", store.Token())
	assert.Equal(t, models.Tema{Descricao: "Viagens"}, form.Entity())
	assert.False(t, form.Loading())
}

func TestSubmitAuthExpiredForcesLogout(t *testing.T) {
	repo := newFakeTemas(models.Tema{ID: 5, Descricao: "Esportes"})
	store := loggedInStore()
	form := temaForm(repo, store, 5)
	form.Load(context.Background())
	require.NoError(t, form.Edit(models.FieldDescricao, "Sports"))
	repo.err = errForbidden

	out := form.Submit(context.Background())

	assert.Equal(t, "", store.Token())
	assert.Equal(t, Outcome{Notice: notify.NewInfo("O token expirou, favor logar novamente"), LoggedOut: true}, out)
	assert.Empty(t, out.Navigate, "no navigation to the list on forced logout")
	assert.False(t, form.Loading())

	var g auth.Guard
	redirect, ok := g.Observe(store.Token())
	require.True(t, ok)
	assert.Equal(t, routes.Login, redirect.Route)
}

func TestDuplicateSubmitIsRefused(t *testing.T) {
	repo := newFakeTemas()
	form := temaForm(repo, loggedInStore(), 0)
	require.NoError(t, form.Edit(models.FieldDescricao, "Viagens"))

	call, ok := form.BeginSubmit()
	require.True(t, ok)
	assert.True(t, form.Loading())

	_, ok = form.BeginSubmit()
	assert.False(t, ok)
	assert.Equal(t, Outcome{}, form.Submit(context.Background()))

	saved, err := call(context.Background())
	form.FinishSubmit(saved, err)
	assert.Equal(t, 1, repo.count("create"))
	assert.False(t, form.Loading())
}

func TestLoadFailures(t *testing.T) {
	t.Run("not found returns to list", func(t *testing.T) {
		store := loggedInStore()
		form := temaForm(newFakeTemas(), store, 5)
		out := form.Load(context.Background())
		assert.Equal(t, Outcome{Navigate: routes.Temas, Notice: notify.NewError("Erro ao buscar o Tema")}, out)
		assert.Equal(t, "Bearer ok", store.Token())
	})
	t.Run("expired token logs out", func(t *testing.T) {
		store := loggedInStore()
		repo := newFakeTemas()
		repo.err = errForbidden
		out := temaForm(repo, store, 5).Load(context.Background())
		assert.True(t, out.LoggedOut)
		assert.Equal(t, "", store.Token())
	})
}

func TestCancelledSubmitIsSilent(t *testing.T) {
	repo := newFakeTemas()
	recorder := &fakeRecorder{}
	form := NewFormController[models.Tema](Config[models.Tema]{
		Repository: repo, Session: loggedInStore(), Resource: TemaResource, Recorder: recorder,
	}, 0)
	repo.err = context.Canceled

	assert.Equal(t, Outcome{}, form.Submit(context.Background()))
	assert.False(t, form.Loading())
	assert.Empty(t, recorder.entries)
}

func TestPrepareStampsAuthor(t *testing.T) {
	repo := &capturingPostagens{}
	form := NewFormController[models.Postagem](Config[models.Postagem]{
		Repository: repo,
		Session:    loggedInStore(),
		Resource:   PostagemResource,
		Prepare: func(p models.Postagem, s auth.Session) models.Postagem {
			p.Usuario = s.Author()
			return p
		},
	}, 0)
	require.NoError(t, form.Edit(models.FieldTitulo, "Olá"))

	out := form.Submit(context.Background())

	assert.Equal(t, "Postagem cadastrada com sucesso", out.Notice.Text)
	require.NotNil(t, repo.created.Usuario)
	assert.Equal(t, int64(9), repo.created.Usuario.ID)
	assert.Nil(t, form.Entity().Usuario, "the edited entity is not modified by Prepare")
}

type postagemRepo struct{}

func (postagemRepo) FetchByID(context.Context, int64, string) (models.Postagem, error) {
	return models.Postagem{}, nil
}
func (postagemRepo) Create(_ context.Context, p models.Postagem, _ string) (models.Postagem, error) {
	return p, nil
}
func (postagemRepo) Update(_ context.Context, p models.Postagem, _ string) (models.Postagem, error) {
	return p, nil
}
func (postagemRepo) Remove(context.Context, int64, string) error { return nil }

type capturingPostagens struct {
	postagemRepo
	created models.Postagem
}

func (c *capturingPostagens) Create(_ context.Context, p models.Postagem, _ string) (models.Postagem, error) {
	c.created = p
	return models.Postagem{}, nil
}
