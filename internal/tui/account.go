package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/forms"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

type loginScreen struct {
	env    *env
	ctrl   *forms.LoginController
	fields *fieldSet
}

func newLoginScreen(e *env) *loginScreen {
	return &loginScreen{
		env:  e,
		ctrl: forms.NewLoginController(e.deps.Session),
		fields: newFieldSet(
			newField(models.FieldUsuario, "Usuário", "email@email.com"),
			newPasswordField(models.FieldSenha, "Senha"),
		),
	}
}

func (s *loginScreen) Init() tea.Cmd { return nil }

func (s *loginScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return s.fields.Next()
		case "shift+tab", "up":
			return s.fields.Prev()
		case "ctrl+n":
			return navigateTo(routes.Cadastro)
		case "enter":
			call, ok := s.ctrl.BeginSubmit()
			if !ok {
				return nil
			}
			return run(s.env.tasks, call, func(_ auth.Session, err error) tea.Msg {
				return loginDoneMsg{Err: err}
			})
		}
		if s.ctrl.Loading() {
			return nil
		}
		name, value, changed, cmd := s.fields.Update(msg)
		if changed {
			if err := s.ctrl.Edit(name, value); err != nil {
				log.Debug().Err(err).Msg("login edit rejected")
			}
		}
		return cmd

	case loginDoneMsg:
		out := s.ctrl.FinishSubmit(msg.Err)
		s.fields.Set(models.FieldSenha, s.ctrl.Credentials().Senha)
		s.env.apply(out)
		return nil
	}
	return nil
}

func (s *loginScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Entrar") + "\n\n")
	b.WriteString(s.fields.View())
	if s.ctrl.Loading() {
		b.WriteString(button(s.env.indicator.View(), true))
	} else {
		b.WriteString(button("Entrar", false))
	}
	b.WriteString("\n\n" + mutedStyle.Render("Ainda não tem uma conta? ctrl+n para cadastrar-se") + "\n")
	return b.String()
}

func (s *loginScreen) Help() string {
	return "tab: próximo campo • enter: entrar • ctrl+n: cadastrar"
}

type cadastroScreen struct {
	env    *env
	ctrl   *forms.RegisterController
	fields *fieldSet
}

func newCadastroScreen(e *env) *cadastroScreen {
	return &cadastroScreen{
		env:  e,
		ctrl: forms.NewRegisterController(e.deps.Accounts),
		fields: newFieldSet(
			newField(models.FieldNome, "Nome", "Nome"),
			newField(models.FieldUsuario, "Usuário", "email@email.com"),
			newField(models.FieldFoto, "Foto", "https://..."),
			newPasswordField(models.FieldSenha, "Senha"),
			newPasswordField(forms.FieldConfirmarSenha, "Confirmar senha"),
		),
	}
}

func (s *cadastroScreen) Init() tea.Cmd { return nil }

func (s *cadastroScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return s.fields.Next()
		case "shift+tab", "up":
			return s.fields.Prev()
		case "esc":
			s.env.apply(s.ctrl.Cancel())
			return nil
		case "enter":
			call, out, ok := s.ctrl.BeginSubmit()
			s.syncPasswords()
			if !ok {
				s.env.apply(out)
				return nil
			}
			return run(s.env.tasks, call, func(u models.Usuario, err error) tea.Msg {
				return registerDoneMsg{Usuario: u, Err: err}
			})
		}
		if s.ctrl.Loading() {
			return nil
		}
		name, value, changed, cmd := s.fields.Update(msg)
		if changed {
			if err := s.ctrl.Edit(name, value); err != nil {
				log.Debug().Err(err).Msg("registration edit rejected")
			}
		}
		return cmd

	case registerDoneMsg:
		s.env.apply(s.ctrl.FinishSubmit(msg.Usuario, msg.Err))
		return nil
	}
	return nil
}

// syncPasswords mirrors the controller after a failed validation cleared both passwords
func (s *cadastroScreen) syncPasswords() {
	s.fields.Set(models.FieldSenha, s.ctrl.Usuario().Senha)
	s.fields.Set(forms.FieldConfirmarSenha, s.ctrl.Confirmacao())
}

func (s *cadastroScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cadastrar") + "\n\n")
	b.WriteString(s.fields.View())
	if s.ctrl.Loading() {
		b.WriteString(button(s.env.indicator.View(), true))
	} else {
		b.WriteString(button("Cadastrar", false))
	}
	b.WriteString("  " + mutedStyle.Render("esc: cancelar") + "\n")
	return b.String()
}

func (s *cadastroScreen) Help() string {
	return "tab: próximo campo • enter: cadastrar • esc: cancelar"
}
