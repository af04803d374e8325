package routes

import (
	"fmt"
	"strconv"
	"strings"
)

// Paths served by the client. Views with an :id segment take the record id from the path.
const (
	Root             = "/"
	Login            = "/login"
	Cadastro         = "/cadastro"
	Home             = "/home"
	Temas            = "/temas"
	CadastroTema     = "/cadastroTema"
	EditarTema       = "/editarTema"
	DeletarTema      = "/deletarTema"
	Postagens        = "/postagens"
	CadastroPostagem = "/cadastroPostagem"
	EditarPostagem   = "/editarPostagem"
	DeletarPostagem  = "/deletarPostagem"
	Perfil           = "/perfil"
)

var known = map[string]bool{
	Root: true, Login: true, Cadastro: true, Home: true,
	Temas: true, CadastroTema: true, EditarTema: true, DeletarTema: true,
	Postagens: true, CadastroPostagem: true, EditarPostagem: true, DeletarPostagem: true,
	Perfil: true,
}

var withID = map[string]bool{
	EditarTema: true, DeletarTema: true, EditarPostagem: true, DeletarPostagem: true,
}

// Route is a parsed path: the view name and the optional record id
type Route struct {
	Name  string
	ID    int64
	HasID bool
}

// With builds the path of a view that takes an id, e.g. With(EditarTema, 5) is /editarTema/5
func With(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// Parse splits a path into its view and id
func Parse(path string) (Route, error) {
	if path == "" {
		path = Root
	}
	if known[path] {
		if withID[path] {
			return Route{}, fmt.Errorf("route %s requires an id", path)
		}
		return Route{Name: path}, nil
	}

	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return Route{}, fmt.Errorf("unknown route %s", path)
	}
	base, raw := path[:i], path[i+1:]
	if !withID[base] {
		return Route{}, fmt.Errorf("unknown route %s", path)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Route{}, fmt.Errorf("invalid id in route %s", path)
	}
	return Route{Name: base, ID: id, HasID: true}, nil
}

// Protected reports whether the view requires an authenticated session
func Protected(name string) bool {
	switch name {
	case Root, Login, Cadastro:
		return false
	}
	return true
}
