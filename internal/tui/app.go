// Package tui is the terminal client: a bubbletea program that routes between
// the login, registration, theme and post views the way the browser client
// routes between pages.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/forms"
	"github.com/strrl/blogpessoal/internal/notify"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/internal/tasks"
	"github.com/strrl/blogpessoal/pkg/models"
)

const maxNotices = 3

// Collection is a backend collection as the views use it
type Collection[T any] interface {
	forms.Repository[T]
	forms.Lister[T]
}

// Deps are the services the views talk to
type Deps struct {
	Session   *auth.Store
	Accounts  forms.Registrar
	Temas     Collection[models.Tema]
	Postagens Collection[models.Postagem]
	// Recorder journals completed mutations; optional
	Recorder forms.Recorder
}

// screen is one mounted view
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Help() string
}

// retargetable views keep their state when only the route id changes
type retargetable interface {
	SetID(id int64) tea.Cmd
}

// env is shared by the root model and the mounted view
type env struct {
	deps      Deps
	tasks     *tasks.Registry
	indicator *LoadingIndicator
	width     int
	height    int

	// outcomes queued by the view, applied by the root after each message
	outcomes []forms.Outcome
}

// apply queues what a controller decided after an operation
func (e *env) apply(out forms.Outcome) {
	if out == (forms.Outcome{}) {
		return
	}
	e.outcomes = append(e.outcomes, out)
}

func (e *env) bodyHeight() int {
	h := e.height - 4 - maxNotices
	if h < 5 {
		return 5
	}
	return h
}

type toast struct {
	id     int
	notice notify.Notice
}

type model struct {
	ctx    context.Context
	env    *env
	route  routes.Route
	screen screen
	guard  auth.Guard

	notices  []toast
	noticeID int
	quitting bool

	// mountCmd is the Init of the first view
	mountCmd tea.Cmd
}

func initialModel(ctx context.Context, deps Deps, start string) model {
	m := model{
		ctx: ctx,
		env: &env{
			deps:      deps,
			tasks:     tasks.NewRegistry(ctx),
			indicator: NewLoadingIndicator("Carregando..."),
		},
	}
	m.mountCmd = m.navigate(start)
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.mountCmd)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.env.width = msg.Width
		m.env.height = msg.Height
		cmds = append(cmds, m.screen.Update(msg))

	case TickMsg:
		m.env.indicator.Tick()
		return m, tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.env.tasks.Close()
			return m, tea.Quit
		case "ctrl+x":
			if routes.Protected(m.route.Name) {
				m.env.apply(forms.Logout(m.env.deps.Session))
				break
			}
			cmds = append(cmds, m.screen.Update(msg))
		default:
			cmds = append(cmds, m.screen.Update(msg))
		}

	case resultMsg:
		if !m.env.tasks.Finish(msg.RequestID) {
			log.Debug().Str("request_id", msg.RequestID).Str("route", m.route.Name).Msg("dropping result of a disposed view")
			return m, nil
		}
		cmds = append(cmds, m.screen.Update(msg.Msg))

	case navigateMsg:
		cmds = append(cmds, m.navigate(msg.Path))

	case noticeExpiredMsg:
		for i, t := range m.notices {
			if t.id == msg.ID {
				m.notices = append(m.notices[:i:i], m.notices[i+1:]...)
				break
			}
		}

	default:
		cmds = append(cmds, m.screen.Update(msg))
	}

	cmds = append(cmds, m.flushOutcomes(), m.checkGuard())
	return m, tea.Batch(cmds...)
}

// flushOutcomes shows the queued notices and follows the queued navigation
func (m *model) flushOutcomes() tea.Cmd {
	var cmds []tea.Cmd
	for len(m.env.outcomes) > 0 {
		out := m.env.outcomes[0]
		m.env.outcomes = m.env.outcomes[1:]
		if out.HasNotice() {
			cmds = append(cmds, m.push(out.Notice))
		}
		if out.Navigate != "" {
			cmds = append(cmds, m.navigate(out.Navigate))
		}
	}
	return tea.Batch(cmds...)
}

// checkGuard sends a protected view to the login when the token went away
func (m *model) checkGuard() tea.Cmd {
	if !routes.Protected(m.route.Name) {
		return nil
	}
	redirect, ok := m.guard.Observe(m.env.deps.Session.Token())
	if !ok {
		return nil
	}
	return tea.Batch(m.push(redirect.Notice), m.navigate(redirect.Route))
}

// navigate unmounts the current view, cancelling its requests, and mounts the view for path
func (m *model) navigate(path string) tea.Cmd {
	route, err := routes.Parse(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("unknown route")
		return m.push(notify.NewError("Página não encontrada"))
	}

	if m.screen != nil && route.HasID && route.Name == m.route.Name {
		if r, ok := m.screen.(retargetable); ok {
			m.route = route
			return r.SetID(route.ID)
		}
	}

	m.env.tasks.Close()
	m.env.tasks = tasks.NewRegistry(m.ctx)
	m.route = route
	m.guard = auth.Guard{}
	log.Debug().Str("route", path).Msg("navigate")

	if routes.Protected(route.Name) {
		if redirect, ok := m.guard.Observe(m.env.deps.Session.Token()); ok {
			return tea.Batch(m.push(redirect.Notice), m.navigate(redirect.Route))
		}
	}

	m.screen = mount(m.env, route)
	return m.screen.Init()
}

func mount(e *env, route routes.Route) screen {
	switch route.Name {
	case routes.Cadastro:
		return newCadastroScreen(e)
	case routes.Home:
		return newHomeScreen(e)
	case routes.Perfil:
		return newPerfilScreen(e)
	case routes.Temas:
		return newTemaListScreen(e)
	case routes.CadastroTema:
		return newTemaFormScreen(e, 0)
	case routes.EditarTema:
		return newTemaFormScreen(e, route.ID)
	case routes.DeletarTema:
		return newTemaDeleteScreen(e, route.ID)
	case routes.Postagens:
		return newPostagemListScreen(e)
	case routes.CadastroPostagem:
		return newPostagemFormScreen(e, 0)
	case routes.EditarPostagem:
		return newPostagemFormScreen(e, route.ID)
	case routes.DeletarPostagem:
		return newPostagemDeleteScreen(e, route.ID)
	default:
		return newLoginScreen(e)
	}
}

func (m *model) push(n notify.Notice) tea.Cmd {
	m.noticeID++
	m.notices = append(m.notices, toast{id: m.noticeID, notice: n})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
	log.Info().Str("level", n.Level.String()).Str("route", m.route.Name).Msg(n.Text)
	return expireNotice(m.noticeID)
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader() + "\n\n")
	b.WriteString(m.screen.View())
	b.WriteString("\n")
	b.WriteString(m.renderNotices())
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderHeader() string {
	title := "Blog Pessoal"
	if s := m.env.deps.Session.Session(); s.Authenticated() {
		title = fmt.Sprintf("Blog Pessoal - %s", s.Nome)
	}
	return headerStyle.Render(title) + " " + mutedStyle.Render(m.route.Name)
}

func (m model) renderNotices() string {
	var b strings.Builder
	for _, t := range m.notices {
		b.WriteString(noticeStyle(t.notice.Level).Render("● "+t.notice.Text) + "\n")
	}
	return b.String()
}

func (m model) renderFooter() string {
	info := m.screen.Help()
	if routes.Protected(m.route.Name) {
		info += " • ctrl+x: sair da conta"
	}
	info += " • ctrl+c: fechar"
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(info)
}

// Run starts the client at the login view and blocks until the user quits
func Run(ctx context.Context, deps Deps) error {
	m := initialModel(ctx, deps, routes.Login)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if final, ok := finalModel.(model); ok {
		final.env.tasks.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
