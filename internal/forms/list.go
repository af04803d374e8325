package forms

import (
	"context"

	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/notify"
)

// Lister loads a whole collection
type Lister[T any] interface {
	List(ctx context.Context, token string) ([]T, error)
}

// ListController drives a list view
type ListController[T any] struct {
	lister   Lister[T]
	session  Session
	resource Resource

	items    []T
	fetching bool
	loaded   bool
}

// NewListController creates a controller that has not loaded yet
func NewListController[T any](lister Lister[T], session Session, resource Resource) *ListController[T] {
	return &ListController[T]{lister: lister, session: session, resource: resource}
}

// Items returns the last loaded collection
func (c *ListController[T]) Items() []T { return c.items }

// Fetching reports whether a load is in flight
func (c *ListController[T]) Fetching() bool { return c.fetching }

// Loaded reports whether a load ever succeeded
func (c *ListController[T]) Loaded() bool { return c.loaded }

// BeginLoad starts a (re)load of the collection unless one is already running
func (c *ListController[T]) BeginLoad() (Call[[]T], bool) {
	if c.fetching {
		return nil, false
	}
	c.fetching = true
	lister, token := c.lister, c.session.Token()
	return func(ctx context.Context) ([]T, error) {
		return lister.List(ctx, token)
	}, true
}

// FinishLoad keeps the previous items when the load fails
func (c *ListController[T]) FinishLoad(items []T, err error) Outcome {
	c.fetching = false
	if err != nil {
		if cancelled(err) {
			return Outcome{}
		}
		logFailure(c.resource.Name, "list", 0, err)
		if api.IsAuthExpired(err) {
			return expired(c.session)
		}
		return Outcome{Notice: notify.NewError(c.resource.Copy.ListFailed)}
	}
	c.items = items
	c.loaded = true
	return Outcome{}
}

// Load runs a load synchronously
func (c *ListController[T]) Load(ctx context.Context) Outcome {
	call, ok := c.BeginLoad()
	if !ok {
		return Outcome{}
	}
	items, err := call(ctx)
	return c.FinishLoad(items, err)
}
