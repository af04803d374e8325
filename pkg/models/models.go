package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names one editable attribute of a record
type Field string

const (
	FieldDescricao Field = "descricao"
	FieldTitulo    Field = "titulo"
	FieldTexto     Field = "texto"
	FieldTema      Field = "tema"
	FieldNome      Field = "nome"
	FieldUsuario   Field = "usuario"
	FieldSenha     Field = "senha"
	FieldFoto      Field = "foto"
)

// UnknownFieldError is returned when a record has no attribute with the given name
type UnknownFieldError struct {
	Record string
	Field  Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.Record, e.Field)
}

// Tema represents a theme (tag) that posts are filed under
type Tema struct {
	ID        int64  `json:"id,omitempty" yaml:"id"`
	Descricao string `json:"descricao" yaml:"descricao"`
}

// Key returns the backend identifier, 0 while pending creation
func (t Tema) Key() int64 { return t.ID }

// IsNew reports whether the theme has not been persisted yet
func (t Tema) IsNew() bool { return t.ID == 0 }

// WithKey returns a copy of the theme carrying the given identifier
func (t Tema) WithKey(id int64) Tema {
	t.ID = id
	return t
}

// With returns a copy of the theme with one field replaced
func (t Tema) With(field Field, value string) (Tema, error) {
	switch field {
	case FieldDescricao:
		t.Descricao = value
	default:
		return t, &UnknownFieldError{Record: "tema", Field: field}
	}
	return t, nil
}

// Usuario represents a user account, either as registration payload or post author
type Usuario struct {
	ID      int64  `json:"id,omitempty" yaml:"id"`
	Nome    string `json:"nome,omitempty" yaml:"nome"`
	Usuario string `json:"usuario,omitempty" yaml:"usuario"`
	Senha   string `json:"senha,omitempty" yaml:"-"`
	Foto    string `json:"foto,omitempty" yaml:"foto,omitempty"`
}

// With returns a copy of the user with one field replaced
func (u Usuario) With(field Field, value string) (Usuario, error) {
	switch field {
	case FieldNome:
		u.Nome = value
	case FieldUsuario:
		u.Usuario = value
	case FieldSenha:
		u.Senha = value
	case FieldFoto:
		u.Foto = value
	default:
		return u, &UnknownFieldError{Record: "usuario", Field: field}
	}
	return u, nil
}

// UsuarioLogin is both the login request and the authenticated identity returned by the backend
type UsuarioLogin struct {
	ID      int64  `json:"id,omitempty"`
	Nome    string `json:"nome,omitempty"`
	Usuario string `json:"usuario"`
	Senha   string `json:"senha,omitempty"`
	Foto    string `json:"foto,omitempty"`
	Token   string `json:"token,omitempty"`
}

// With returns a copy of the credentials with one field replaced
func (l UsuarioLogin) With(field Field, value string) (UsuarioLogin, error) {
	switch field {
	case FieldUsuario:
		l.Usuario = value
	case FieldSenha:
		l.Senha = value
	default:
		return l, &UnknownFieldError{Record: "login", Field: field}
	}
	return l, nil
}

// Postagem represents a post filed under a theme and written by a user
type Postagem struct {
	ID      int64    `json:"id,omitempty" yaml:"id"`
	Titulo  string   `json:"titulo" yaml:"titulo"`
	Texto   string   `json:"texto" yaml:"texto"`
	Data    string   `json:"data,omitempty" yaml:"data,omitempty"`
	Tema    *Tema    `json:"tema,omitempty" yaml:"tema,omitempty"`
	Usuario *Usuario `json:"usuario,omitempty" yaml:"usuario,omitempty"`
}

// Key returns the backend identifier, 0 while pending creation
func (p Postagem) Key() int64 { return p.ID }

// IsNew reports whether the post has not been persisted yet
func (p Postagem) IsNew() bool { return p.ID == 0 }

// WithKey returns a copy of the post carrying the given identifier
func (p Postagem) WithKey(id int64) Postagem {
	p.ID = id
	return p
}

// With returns a copy of the post with one field replaced. The tema field takes a theme id.
func (p Postagem) With(field Field, value string) (Postagem, error) {
	switch field {
	case FieldTitulo:
		p.Titulo = value
	case FieldTexto:
		p.Texto = value
	case FieldTema:
		id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return p, fmt.Errorf("invalid tema id %q: %w", value, err)
		}
		p.Tema = &Tema{ID: id}
	default:
		return p, &UnknownFieldError{Record: "postagem", Field: field}
	}
	return p, nil
}

// TemaDescricao returns the description of the post's theme, if any
func (p Postagem) TemaDescricao() string {
	if p.Tema == nil {
		return ""
	}
	return p.Tema.Descricao
}

// Autor returns the display name of the post's author, if any
func (p Postagem) Autor() string {
	if p.Usuario == nil {
		return ""
	}
	return p.Usuario.Nome
}
