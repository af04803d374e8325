package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/blogpessoal/internal/forms"
	"github.com/strrl/blogpessoal/pkg/models"
)

// deleteScreen asks for confirmation before removing one record
type deleteScreen[T any] struct {
	env      *env
	ctrl     *forms.DeleteController[T]
	title    string
	question string
	describe func(T) string
}

func newTemaDeleteScreen(e *env, id int64) *deleteScreen[models.Tema] {
	return &deleteScreen[models.Tema]{
		env: e,
		ctrl: forms.NewDeleteController[models.Tema](forms.Config[models.Tema]{
			Repository: e.deps.Temas,
			Session:    e.deps.Session,
			Resource:   forms.TemaResource,
			Recorder:   e.deps.Recorder,
		}, id),
		title:    "Deletar tema",
		question: "Você tem certeza de que deseja apagar o tema a seguir?",
		describe: func(t models.Tema) string { return t.Descricao },
	}
}

func newPostagemDeleteScreen(e *env, id int64) *deleteScreen[models.Postagem] {
	return &deleteScreen[models.Postagem]{
		env: e,
		ctrl: forms.NewDeleteController[models.Postagem](forms.Config[models.Postagem]{
			Repository: e.deps.Postagens,
			Session:    e.deps.Session,
			Resource:   forms.PostagemResource,
			Recorder:   e.deps.Recorder,
		}, id),
		title:    "Deletar postagem",
		question: "Você tem certeza de que deseja apagar a postagem a seguir?",
		describe: func(p models.Postagem) string {
			if p.Texto == "" {
				return p.Titulo
			}
			return p.Titulo + "\n\n" + p.Texto
		},
	}
}

func (s *deleteScreen[T]) Init() tea.Cmd {
	call, ok := s.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	return run(s.env.tasks, call, func(v T, err error) tea.Msg {
		return entityLoadedMsg[T]{Entity: v, Err: err}
	})
}

func (s *deleteScreen[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case entityLoadedMsg[T]:
		s.env.apply(s.ctrl.FinishLoad(msg.Entity, msg.Err))
		return nil

	case deletedMsg:
		s.env.apply(s.ctrl.FinishConfirm(msg.Err))
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "n", "esc":
			s.env.apply(s.ctrl.Cancel())
			return nil
		case "s", "y", "enter":
			if !s.ctrl.Loaded() {
				return nil
			}
			call, ok := s.ctrl.BeginConfirm()
			if !ok {
				return nil
			}
			return run(s.env.tasks, call, func(_ struct{}, err error) tea.Msg {
				return deletedMsg{Err: err}
			})
		}
	}
	return nil
}

func (s *deleteScreen[T]) View() string {
	if !s.ctrl.Loaded() {
		return LoadingOverlay(s.env.width, s.env.bodyHeight(), s.env.indicator)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.title) + "\n\n")
	b.WriteString(s.question + "\n\n")
	b.WriteString(selectedStyle.Render(s.describe(s.ctrl.Entity())) + "\n\n")
	if s.ctrl.Loading() {
		b.WriteString(button(s.env.indicator.View(), true))
	} else {
		b.WriteString(dangerButtonStyle.Render("Sim (s)"))
	}
	b.WriteString("  " + buttonStyle.Render("Não (n)") + "\n")
	return b.String()
}

func (s *deleteScreen[T]) Help() string {
	return "s: apagar • n/esc: cancelar"
}
