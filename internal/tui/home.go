package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/blogpessoal/internal/forms"
	"github.com/strrl/blogpessoal/internal/routes"
)

type menuItem struct {
	label string
	path  string
}

var homeMenu = []menuItem{
	{label: "Postagens", path: routes.Postagens},
	{label: "Temas", path: routes.Temas},
	{label: "Nova postagem", path: routes.CadastroPostagem},
	{label: "Cadastrar tema", path: routes.CadastroTema},
	{label: "Perfil", path: routes.Perfil},
	{label: "Sair"},
}

type homeScreen struct {
	env    *env
	cursor int
}

func newHomeScreen(e *env) *homeScreen {
	return &homeScreen{env: e}
}

func (s *homeScreen) Init() tea.Cmd { return nil }

func (s *homeScreen) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(homeMenu)-1 {
			s.cursor++
		}
	case "enter":
		item := homeMenu[s.cursor]
		if item.path == "" {
			s.env.apply(forms.Logout(s.env.deps.Session))
			return nil
		}
		return navigateTo(item.path)
	}
	return nil
}

func (s *homeScreen) View() string {
	var b strings.Builder
	session := s.env.deps.Session.Session()
	b.WriteString(titleStyle.Render(fmt.Sprintf("Seja bem-vindo(a), %s!", session.Nome)) + "\n")
	b.WriteString(mutedStyle.Render("Expresse aqui os seus pensamentos e opiniões!") + "\n\n")

	for i, item := range homeMenu {
		if i == s.cursor {
			b.WriteString(selectedStyle.Render("> "+item.label) + "\n")
			continue
		}
		b.WriteString("  " + item.label + "\n")
	}
	return b.String()
}

func (s *homeScreen) Help() string {
	return "↑/↓: navegar • enter: abrir"
}

type perfilScreen struct {
	env *env
}

func newPerfilScreen(e *env) *perfilScreen {
	return &perfilScreen{env: e}
}

func (s *perfilScreen) Init() tea.Cmd { return nil }

func (s *perfilScreen) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "esc" || key.String() == "q") {
		return navigateTo(routes.Home)
	}
	return nil
}

func (s *perfilScreen) View() string {
	session := s.env.deps.Session.Session()
	foto := session.Foto
	if foto == "" {
		foto = mutedStyle.Render("(sem foto)")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Perfil") + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Nome:   "), session.Nome)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Usuário:"), session.Usuario)
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("ID:     "), session.UserID)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Foto:   "), foto)
	return b.String()
}

func (s *perfilScreen) Help() string {
	return "esc: voltar"
}
