package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/forms"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

type temaListScreen struct {
	env   *env
	ctrl  *forms.ListController[models.Tema]
	table table.Model
}

func newTemaListScreen(e *env) *temaListScreen {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Descrição", Width: 50},
		}),
		table.WithFocused(true),
		table.WithHeight(e.bodyHeight()),
	)
	return &temaListScreen{
		env:   e,
		ctrl:  forms.NewListController[models.Tema](e.deps.Temas, e.deps.Session, forms.TemaResource),
		table: t,
	}
}

func (s *temaListScreen) Init() tea.Cmd {
	return s.load()
}

func (s *temaListScreen) load() tea.Cmd {
	call, ok := s.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	return run(s.env.tasks, call, func(items []models.Tema, err error) tea.Msg {
		return listLoadedMsg[models.Tema]{Items: items, Err: err}
	})
}

func (s *temaListScreen) selected() (models.Tema, bool) {
	items := s.ctrl.Items()
	i := s.table.Cursor()
	if i < 0 || i >= len(items) {
		return models.Tema{}, false
	}
	return items[i], true
}

func (s *temaListScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listLoadedMsg[models.Tema]:
		out := s.ctrl.FinishLoad(msg.Items, msg.Err)
		rows := make([]table.Row, 0, len(s.ctrl.Items()))
		for _, t := range s.ctrl.Items() {
			rows = append(rows, table.Row{strconv.FormatInt(t.ID, 10), t.Descricao})
		}
		s.table.SetRows(rows)
		s.env.apply(out)
		return nil

	case tea.WindowSizeMsg:
		s.table.SetHeight(s.env.bodyHeight())
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return navigateTo(routes.Home)
		case "n":
			return navigateTo(routes.CadastroTema)
		case "r":
			return s.load()
		case "e", "enter":
			if t, ok := s.selected(); ok {
				return navigateTo(routes.With(routes.EditarTema, t.ID))
			}
			return nil
		case "d":
			if t, ok := s.selected(); ok {
				return navigateTo(routes.With(routes.DeletarTema, t.ID))
			}
			return nil
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return cmd
	}
	return nil
}

func (s *temaListScreen) View() string {
	if !s.ctrl.Loaded() && s.ctrl.Fetching() {
		return LoadingOverlay(s.env.width, s.env.bodyHeight(), s.env.indicator)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Temas") + "\n\n")
	if len(s.ctrl.Items()) == 0 {
		b.WriteString(mutedStyle.Render("Nenhum tema cadastrado") + "\n")
		return b.String()
	}
	b.WriteString(s.table.View() + "\n")
	return b.String()
}

func (s *temaListScreen) Help() string {
	return "↑/↓: navegar • n: novo • e: editar • d: apagar • r: recarregar • esc: início"
}

type temaFormScreen struct {
	env    *env
	ctrl   *forms.FormController[models.Tema]
	fields *fieldSet
	// fetch is the request id of the record load, cancelled on retarget
	fetch string
}

func newTemaFormScreen(e *env, id int64) *temaFormScreen {
	return &temaFormScreen{
		env: e,
		ctrl: forms.NewFormController[models.Tema](forms.Config[models.Tema]{
			Repository: e.deps.Temas,
			Session:    e.deps.Session,
			Resource:   forms.TemaResource,
			Recorder:   e.deps.Recorder,
		}, id),
		fields: newFieldSet(newField(models.FieldDescricao, "Descrição", "Descreva aqui seu tema")),
	}
}

func (s *temaFormScreen) Init() tea.Cmd {
	return s.load()
}

func (s *temaFormScreen) load() tea.Cmd {
	call, ok := s.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	s.fetch, cmd = track(s.env.tasks, call, func(t models.Tema, err error) tea.Msg {
		return entityLoadedMsg[models.Tema]{Entity: t, Err: err}
	})
	return cmd
}

// SetID follows a route change to another record without remounting
func (s *temaFormScreen) SetID(id int64) tea.Cmd {
	if id != s.ctrl.ID() && s.fetch != "" {
		s.env.tasks.Cancel(s.fetch)
		s.fetch = ""
	}
	s.ctrl.SetID(id)
	s.fields.Set(models.FieldDescricao, s.ctrl.Entity().Descricao)
	return s.load()
}

func (s *temaFormScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case entityLoadedMsg[models.Tema]:
		out := s.ctrl.FinishLoad(msg.Entity, msg.Err)
		s.fields.Set(models.FieldDescricao, s.ctrl.Entity().Descricao)
		s.env.apply(out)
		return nil

	case entitySavedMsg[models.Tema]:
		s.env.apply(s.ctrl.FinishSubmit(msg.Entity, msg.Err))
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return navigateTo(routes.Temas)
		case "enter":
			call, ok := s.ctrl.BeginSubmit()
			if !ok {
				return nil
			}
			return run(s.env.tasks, call, func(t models.Tema, err error) tea.Msg {
				return entitySavedMsg[models.Tema]{Entity: t, Err: err}
			})
		}
		if s.ctrl.Loading() || s.ctrl.Fetching() {
			return nil
		}
		name, value, changed, cmd := s.fields.Update(msg)
		if changed {
			if err := s.ctrl.Edit(name, value); err != nil {
				log.Debug().Err(err).Msg("tema edit rejected")
			}
		}
		return cmd
	}
	return nil
}

func (s *temaFormScreen) View() string {
	if s.ctrl.Fetching() {
		return LoadingOverlay(s.env.width, s.env.bodyHeight(), s.env.indicator)
	}
	title := "Cadastrar Tema"
	label := "Cadastrar"
	if s.ctrl.Mode() == forms.EditMode {
		title = "Editar Tema"
		label = "Atualizar"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(s.fields.View())
	if s.ctrl.Loading() {
		b.WriteString(button(s.env.indicator.View(), true))
	} else {
		b.WriteString(button(label, false))
	}
	b.WriteString("\n")
	return b.String()
}

func (s *temaFormScreen) Help() string {
	return "enter: salvar • esc: voltar"
}
