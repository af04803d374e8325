package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/blogpessoal/internal/forms"
	"github.com/strrl/blogpessoal/internal/tasks"
	"github.com/strrl/blogpessoal/pkg/models"
)

const noticeTTL = 4 * time.Second

// Message types for async operations
type (
	// resultMsg wraps the result of a request started by a view. It is only
	// delivered while the request is still registered with the view's tasks.
	resultMsg struct {
		RequestID string
		Msg       tea.Msg
	}

	// navigateMsg moves to another route
	navigateMsg struct {
		Path string
	}

	// noticeExpiredMsg removes a notice from the toast line
	noticeExpiredMsg struct {
		ID int
	}

	// TickMsg is sent periodically for spinner animation
	TickMsg time.Time
)

// Results handed back to the views
type (
	loginDoneMsg struct {
		Err error
	}

	registerDoneMsg struct {
		Usuario models.Usuario
		Err     error
	}

	entityLoadedMsg[T any] struct {
		Entity T
		Err    error
	}

	entitySavedMsg[T any] struct {
		Entity T
		Err    error
	}

	listLoadedMsg[T any] struct {
		Items []T
		Err   error
	}

	deletedMsg struct {
		Err error
	}
)

// run starts call under a request id registered with the view's tasks. The
// view is gone when the id is no longer registered and the result is dropped.
func run[T any](reg *tasks.Registry, call forms.Call[T], done func(T, error) tea.Msg) tea.Cmd {
	_, cmd := track(reg, call, done)
	return cmd
}

// track is run for requests the view may abandon before it goes away; the
// returned id is what Registry.Cancel takes.
func track[T any](reg *tasks.Registry, call forms.Call[T], done func(T, error) tea.Msg) (string, tea.Cmd) {
	requestID, ctx := reg.Start()
	return requestID, func() tea.Msg {
		v, err := call(ctx)
		return resultMsg{RequestID: requestID, Msg: done(v, err)}
	}
}

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{Path: path}
	}
}

func expireNotice(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{ID: id}
	})
}

// tickCmd creates a ticker for spinner animation
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
