// Package forms holds the view controllers of the client: the create/edit
// entity form, the delete confirmation, the lists and the account forms.
//
// Controllers never block. Each network operation is split in two: BeginX
// flips the controller into its busy state and returns a Call to run off the
// UI loop, and FinishX takes the Call's result and returns the Outcome the
// view must apply (navigation, notice). Synchronous wrappers (Load, Submit,
// Confirm) run both halves for callers that do not have an event loop.
package forms

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/pkg/models"
)

// ErrNotReady is returned by Edit while the record is still being fetched
var ErrNotReady = errors.New("form is still loading")

// Repository is the slice of the resource client the controllers use
type Repository[T any] interface {
	FetchByID(ctx context.Context, id int64, token string) (T, error)
	Create(ctx context.Context, payload T, token string) (T, error)
	Update(ctx context.Context, payload T, token string) (T, error)
	Remove(ctx context.Context, id int64, token string) error
}

// Record is implemented by the editable models
type Record[T any] interface {
	Key() int64
	WithKey(id int64) T
	With(field models.Field, value string) (T, error)
}

// Session is the read side of the session store plus the forced logout
type Session interface {
	Token() string
	Session() auth.Session
	Logout()
}

// Recorder receives the outcome of every completed mutation
type Recorder interface {
	Record(resource, action string, entityID int64, err error)
}

// Call is the network half of an operation, run outside the UI loop
type Call[T any] func(ctx context.Context) (T, error)

// Outcome is what a view must do after an operation finishes
type Outcome struct {
	// Navigate is the route to leave for, "" to stay
	Navigate string
	Notice   notify.Notice
	// LoggedOut is set when the operation forced a logout
	LoggedOut bool
}

// HasNotice reports whether the outcome carries a notice
func (o Outcome) HasNotice() bool {
	return o.Notice.Text != ""
}

// Mode is chosen once when a form mounts
type Mode int

const (
	CreateMode Mode = iota
	EditMode
)

func (m Mode) String() string {
	if m == EditMode {
		return "edit"
	}
	return "create"
}

// Journal actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// expired drops the session after the backend reported the token as invalid
func expired(session Session) Outcome {
	session.Logout()
	return Outcome{Notice: notify.NewInfo(notify.TokenExpired), LoggedOut: true}
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func record(r Recorder, resource, action string, id int64, err error) {
	if r == nil || cancelled(err) {
		return
	}
	r.Record(resource, action, id, err)
}

func logFailure(resource, action string, id int64, err error) {
	log.Warn().Err(err).
		Str("resource", resource).
		Str("action", action).
		Int64("id", id).
		Bool("auth_expired", api.IsAuthExpired(err)).
		Msg("request failed")
}
