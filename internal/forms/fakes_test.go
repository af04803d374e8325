package forms

import (
	"context"
	"strconv"

	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/pkg/models"
)

type call struct {
	Op      string
	ID      int64
	Payload models.Tema
	Token   string
}

type fakeTemas struct {
	calls  []call
	stored map[int64]models.Tema
	err    error
	nextID int64
}

func newFakeTemas(existing ...models.Tema) *fakeTemas {
	f := &fakeTemas{stored: make(map[int64]models.Tema), nextID: 100}
	for _, t := range existing {
		f.stored[t.ID] = t
	}
	return f
}

func (f *fakeTemas) FetchByID(_ context.Context, id int64, token string) (models.Tema, error) {
	f.calls = append(f.calls, call{Op: "fetch", ID: id, Token: token})
	if f.err != nil {
		return models.Tema{}, f.err
	}
	t, ok := f.stored[id]
	if !ok {
		return models.Tema{}, &api.StatusError{Method: "GET", Path: "/temas/" + strconv.FormatInt(id, 10), Status: 404}
	}
	return t, nil
}

func (f *fakeTemas) Create(_ context.Context, payload models.Tema, token string) (models.Tema, error) {
	f.calls = append(f.calls, call{Op: "create", Payload: payload, Token: token})
	if f.err != nil {
		return models.Tema{}, f.err
	}
	f.nextID++
	payload.ID = f.nextID
	f.stored[payload.ID] = payload
	return payload, nil
}

func (f *fakeTemas) Update(_ context.Context, payload models.Tema, token string) (models.Tema, error) {
	f.calls = append(f.calls, call{Op: "update", ID: payload.ID, Payload: payload, Token: token})
	if f.err != nil {
		return models.Tema{}, f.err
	}
	f.stored[payload.ID] = payload
	return payload, nil
}

func (f *fakeTemas) Remove(_ context.Context, id int64, token string) error {
	f.calls = append(f.calls, call{Op: "remove", ID: id, Token: token})
	if f.err != nil {
		return f.err
	}
	delete(f.stored, id)
	return nil
}

func (f *fakeTemas) List(_ context.Context, token string) ([]models.Tema, error) {
	f.calls = append(f.calls, call{Op: "list", Token: token})
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Tema, 0, len(f.stored))
	for _, t := range f.stored {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemas) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func ops(f *fakeTemas) []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Op)
	}
	return out
}

type fakeAuthenticator struct {
	err error
}

func (f fakeAuthenticator) Login(_ context.Context, credentials models.UsuarioLogin) (models.UsuarioLogin, error) {
	if f.err != nil {
		return models.UsuarioLogin{}, f.err
	}
	return models.UsuarioLogin{ID: 9, Nome: "Maria", Usuario: credentials.Usuario, Token: "Bearer ok"}, nil
}

func loggedInStore() *auth.Store {
	store := auth.NewStore(fakeAuthenticator{})
	if _, err := store.Login(context.Background(), models.UsuarioLogin{Usuario: "maria@email.com", Senha: "12345678"}); err != nil {
		panic(err)
	}
	return store
}

type recorded struct {
	Resource string
	Action   string
	ID       int64
	Failed   bool
}

type fakeRecorder struct {
	entries []recorded
}

func (r *fakeRecorder) Record(resource, action string, id int64, err error) {
	r.entries = append(r.entries, recorded{Resource: resource, Action: action, ID: id, Failed: err != nil})
}

var errForbidden = &api.StatusError{Method: "PUT", Path: "/temas", Status: 403}
var errBadRequest = &api.StatusError{Method: "POST", Path: "/temas", Status: 400}
