package forms

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/pkg/models"
)

// Config wires an entity form or delete confirmation to its collection
type Config[T any] struct {
	Repository Repository[T]
	Session    Session
	Resource   Resource
	// Prepare adjusts the payload right before it is sent, e.g. to stamp the author
	Prepare  func(entity T, session auth.Session) T
	Recorder Recorder
}

// FormController drives the create/edit form of one record type
type FormController[T Record[T]] struct {
	cfg  Config[T]
	mode Mode
	id   int64

	entity     T
	fetching   bool
	fetchingID int64
	loadedID   int64
	loading    bool
}

// NewFormController mounts a form. A zero id selects create mode, anything else edit mode.
func NewFormController[T Record[T]](cfg Config[T], id int64) *FormController[T] {
	mode := CreateMode
	if id != 0 {
		mode = EditMode
	}
	return &FormController[T]{cfg: cfg, mode: mode, id: id}
}

// Mode reports whether the form creates or edits
func (c *FormController[T]) Mode() Mode { return c.mode }

// ID returns the route id the form edits, 0 in create mode
func (c *FormController[T]) ID() int64 { return c.id }

// Entity returns the record as currently edited
func (c *FormController[T]) Entity() T { return c.entity }

// Loading reports whether a submission is in flight; the submit control is disabled meanwhile
func (c *FormController[T]) Loading() bool { return c.loading }

// Fetching reports whether the record to edit is being loaded
func (c *FormController[T]) Fetching() bool { return c.fetching }

// SetID points an edit form at another record. The record is fetched again
// only if the id actually changed; a fetch still running for the previous id
// is abandoned and its result ignored.
func (c *FormController[T]) SetID(id int64) {
	if c.mode != EditMode || id == 0 || id == c.id {
		return
	}
	c.id = id
	c.loadedID = 0
	c.fetching = false
	var zero T
	c.entity = zero
}

// NeedsLoad reports whether the record for the current id still has to be fetched
func (c *FormController[T]) NeedsLoad() bool {
	return c.mode == EditMode && !c.fetching && c.loadedID != c.id
}

// BeginLoad starts the mount-time fetch. It returns false in create mode and
// when the current id was already fetched or is being fetched.
func (c *FormController[T]) BeginLoad() (Call[T], bool) {
	if !c.NeedsLoad() {
		return nil, false
	}
	c.fetching = true
	c.fetchingID = c.id
	repo, id, token := c.cfg.Repository, c.id, c.cfg.Session.Token()
	return func(ctx context.Context) (T, error) {
		return repo.FetchByID(ctx, id, token)
	}, true
}

// FinishLoad prefills the form with the fetched record. Results that belong
// to an id the form no longer edits are dropped.
func (c *FormController[T]) FinishLoad(entity T, err error) Outcome {
	if c.stale(entity, err) {
		log.Debug().Str("resource", c.cfg.Resource.Name).Int64("id", c.id).Msg("dropping fetch for a previous id")
		return Outcome{}
	}
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
	c.loadedID = c.id
	return Outcome{}
}

func (c *FormController[T]) stale(entity T, err error) bool {
	if !c.fetching || c.fetchingID != c.id {
		return true
	}
	key := entity.Key()
	return err == nil && key != 0 && key != c.id
}

// Edit replaces exactly one field of the record being edited
func (c *FormController[T]) Edit(field models.Field, value string) error {
	if c.fetching {
		return ErrNotReady
	}
	next, err := c.entity.With(field, value)
	if err != nil {
		return err
	}
	c.entity = next
	return nil
}

// BeginSubmit starts a create or update. It returns false while a previous
// submission or the initial fetch is still running.
func (c *FormController[T]) BeginSubmit() (Call[T], bool) {
	if c.loading || c.fetching {
		return nil, false
	}
	c.loading = true

	payload := c.entity
	if c.cfg.Prepare != nil {
		payload = c.cfg.Prepare(payload, c.cfg.Session.Session())
	}
	repo, token := c.cfg.Repository, c.cfg.Session.Token()
	if c.mode == EditMode {
		payload = payload.WithKey(c.id)
		return func(ctx context.Context) (T, error) {
			return repo.Update(ctx, payload, token)
		}, true
	}
	return func(ctx context.Context) (T, error) {
		return repo.Create(ctx, payload, token)
	}, true
}

// FinishSubmit clears the busy state and decides where the view goes next
func (c *FormController[T]) FinishSubmit(saved T, err error) Outcome {
	c.loading = false

	action, okText, failText := ActionCreate, c.cfg.Resource.Copy.Created, c.cfg.Resource.Copy.CreateFailed
	id := saved.Key()
	if c.mode == EditMode {
		action, okText, failText = ActionUpdate, c.cfg.Resource.Copy.Updated, c.cfg.Resource.Copy.UpdateFailed
		id = c.id
	}
	record(c.cfg.Recorder, c.cfg.Resource.Name, action, id, err)

	if err != nil {
		if cancelled(err) {
			return Outcome{}
		}
		logFailure(c.cfg.Resource.Name, action, id, err)
		if api.IsAuthExpired(err) {
			return expired(c.cfg.Session)
		}
		return Outcome{Notice: notify.NewError(failText)}
	}

	if saved.Key() != 0 {
		c.entity = saved
	}
	return Outcome{
		Navigate: c.cfg.Resource.ListRoute,
		Notice:   notify.NewSuccess(okText),
	}
}

// Load runs the mount-time fetch synchronously; a no-op in create mode
func (c *FormController[T]) Load(ctx context.Context) Outcome {
	call, ok := c.BeginLoad()
	if !ok {
		return Outcome{}
	}
	entity, err := call(ctx)
	return c.FinishLoad(entity, err)
}

// Submit runs a submission synchronously
func (c *FormController[T]) Submit(ctx context.Context) Outcome {
	call, ok := c.BeginSubmit()
	if !ok {
		return Outcome{}
	}
	saved, err := call(ctx)
	return c.FinishSubmit(saved, err)
}
