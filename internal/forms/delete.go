package forms

import (
	"context"

	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/notify"
)

// DeleteController drives the delete confirmation of one record
type DeleteController[T any] struct {
	cfg Config[T]
	id  int64

	entity   T
	fetching bool
	loaded   bool
	loading  bool
}

// NewDeleteController mounts a confirmation for the record with the given id
func NewDeleteController[T any](cfg Config[T], id int64) *DeleteController[T] {
	return &DeleteController[T]{cfg: cfg, id: id}
}

func (c *DeleteController[T]) ID() int64 { return c.id }

// Entity returns the record shown for confirmation
func (c *DeleteController[T]) Entity() T { return c.entity }

// Loaded reports whether the record has been fetched
func (c *DeleteController[T]) Loaded() bool { return c.loaded }

// Loading reports whether the delete request is in flight
func (c *DeleteController[T]) Loading() bool { return c.loading }

// BeginLoad starts the read-only fetch of the record; at most once per controller
func (c *DeleteController[T]) BeginLoad() (Call[T], bool) {
	if c.loaded || c.fetching {
		return nil, false
	}
	c.fetching = true
	repo, id, token := c.cfg.Repository, c.id, c.cfg.Session.Token()
	return func(ctx context.Context) (T, error) {
		return repo.FetchByID(ctx, id, token)
	}, true
}

// FinishLoad stores the fetched record. An expired token forces a logout
// like every other request; any other failure sends the user back to the list.
func (c *DeleteController[T]) FinishLoad(entity T, err error) Outcome {
	c.fetching = false
	if err != nil {
		if cancelled(err) {
			return Outcome{}
		}
		logFailure(c.cfg.Resource.Name, "fetch", c.id, err)
		if api.IsAuthExpired(err) {
			return expired(c.cfg.Session)
		}
		return Outcome{
			Navigate: c.cfg.Resource.ListRoute,
			Notice:   notify.NewError(c.cfg.Resource.Copy.LoadFailed),
		}
	}
	c.entity = entity
	c.loaded = true
	return Outcome{}
}

// Cancel leaves without side effects
func (c *DeleteController[T]) Cancel() Outcome {
	return Outcome{Navigate: c.cfg.Resource.ListRoute}
}

// BeginConfirm starts the delete. It returns false while a delete is already in flight.
func (c *DeleteController[T]) BeginConfirm() (Call[struct{}], bool) {
	if c.loading {
		return nil, false
	}
	c.loading = true
	repo, id, token := c.cfg.Repository, c.id, c.cfg.Session.Token()
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, repo.Remove(ctx, id, token)
	}, true
}

// FinishConfirm reports the result and always returns to the list
func (c *DeleteController[T]) FinishConfirm(err error) Outcome {
	c.loading = false
	record(c.cfg.Recorder, c.cfg.Resource.Name, ActionDelete, c.id, err)

	if err != nil && cancelled(err) {
		return Outcome{}
	}
	out := Outcome{
		Navigate: c.cfg.Resource.ListRoute,
		Notice:   notify.NewSuccess(c.cfg.Resource.Copy.Removed),
	}
	if err != nil {
		logFailure(c.cfg.Resource.Name, ActionDelete, c.id, err)
		if api.IsAuthExpired(err) {
			out = expired(c.cfg.Session)
			out.Navigate = c.cfg.Resource.ListRoute
			return out
		}
		out.Notice = notify.NewError(c.cfg.Resource.Copy.RemoveFailed)
	}
	return out
}

// Load runs the fetch synchronously
func (c *DeleteController[T]) Load(ctx context.Context) Outcome {
	call, ok := c.BeginLoad()
	if !ok {
		return Outcome{}
	}
	entity, err := call(ctx)
	return c.FinishLoad(entity, err)
}

// Confirm runs the delete synchronously
func (c *DeleteController[T]) Confirm(ctx context.Context) Outcome {
	call, ok := c.BeginConfirm()
	if !ok {
		return Outcome{}
	}
	_, err := call(ctx)
	return c.FinishConfirm(err)
}
