package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/strrl/blogpessoal/pkg/models"
)

// Resource is a typed view over one REST collection such as /temas
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to a record type
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// Temas returns the /temas collection
func Temas(client *Client) *Resource[models.Tema] {
	return NewResource[models.Tema](client, "/temas")
}

// Postagens returns the /postagens collection
func Postagens(client *Client) *Resource[models.Postagem] {
	return NewResource[models.Postagem](client, "/postagens")
}

// Path returns the collection path
func (r *Resource[T]) Path() string {
	return r.path
}

// ItemPath returns the path of a single record
func (r *Resource[T]) ItemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// FetchByID loads one record
func (r *Resource[T]) FetchByID(ctx context.Context, id int64, token string) (T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodGet, r.ItemPath(id), token, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// List loads the whole collection
func (r *Resource[T]) List(ctx context.Context, token string) ([]T, error) {
	var out []T
	if err := r.client.do(ctx, http.MethodGet, r.path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new record and returns what the backend stored
func (r *Resource[T]) Create(ctx context.Context, payload T, token string) (T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodPost, r.path, token, payload, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update puts a record; the backend reads the id from the payload
func (r *Resource[T]) Update(ctx context.Context, payload T, token string) (T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodPut, r.path, token, payload, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Remove deletes one record
func (r *Resource[T]) Remove(ctx context.Context, id int64, token string) error {
	return r.client.do(ctx, http.MethodDelete, r.ItemPath(id), token, nil, nil)
}
