package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/forms"
	"github.com/strrl/blogpessoal/internal/routes"
	"github.com/strrl/blogpessoal/pkg/models"
)

type postagemListScreen struct {
	env      *env
	ctrl     *forms.ListController[models.Postagem]
	cursor   int
	viewport viewport.Model
	renderer *glamour.TermRenderer
	wrap     int
}

func newPostagemListScreen(e *env) *postagemListScreen {
	return &postagemListScreen{
		env:      e,
		ctrl:     forms.NewListController[models.Postagem](e.deps.Postagens, e.deps.Session, forms.PostagemResource),
		viewport: viewport.New(contentWidth(e.width), e.bodyHeight()),
	}
}

func contentWidth(width int) int {
	if width <= 0 {
		return 80
	}
	return width
}

func (s *postagemListScreen) Init() tea.Cmd {
	return s.load()
}

func (s *postagemListScreen) load() tea.Cmd {
	call, ok := s.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	return run(s.env.tasks, call, func(items []models.Postagem, err error) tea.Msg {
		return listLoadedMsg[models.Postagem]{Items: items, Err: err}
	})
}

func (s *postagemListScreen) selected() (models.Postagem, bool) {
	items := s.ctrl.Items()
	if s.cursor < 0 || s.cursor >= len(items) {
		return models.Postagem{}, false
	}
	return items[s.cursor], true
}

func (s *postagemListScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listLoadedMsg[models.Postagem]:
		out := s.ctrl.FinishLoad(msg.Items, msg.Err)
		if s.cursor >= len(s.ctrl.Items()) {
			s.cursor = 0
		}
		s.refresh()
		s.env.apply(out)
		return nil

	case tea.WindowSizeMsg:
		s.viewport.Width = contentWidth(msg.Width)
		s.viewport.Height = s.env.bodyHeight()
		s.refresh()
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return navigateTo(routes.Home)
		case "n":
			return navigateTo(routes.CadastroPostagem)
		case "r":
			return s.load()
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
				s.refresh()
			}
			return nil
		case "down", "j":
			if s.cursor < len(s.ctrl.Items())-1 {
				s.cursor++
				s.refresh()
			}
			return nil
		case "e", "enter":
			if p, ok := s.selected(); ok {
				return navigateTo(routes.With(routes.EditarPostagem, p.ID))
			}
			return nil
		case "d":
			if p, ok := s.selected(); ok {
				return navigateTo(routes.With(routes.DeletarPostagem, p.ID))
			}
			return nil
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// refresh renders the posts as markdown into the viewport
func (s *postagemListScreen) refresh() {
	wrap := s.viewport.Width - 4
	if wrap < 20 {
		wrap = 20
	}
	if s.renderer == nil || s.wrap != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to create markdown renderer")
		}
		s.renderer, s.wrap = renderer, wrap
	}

	doc := postagensMarkdown(s.ctrl.Items(), s.cursor)
	content := doc
	if s.renderer != nil {
		if rendered, err := s.renderer.Render(doc); err == nil {
			content = rendered
		}
	}
	s.viewport.SetContent(content)
}

func postagensMarkdown(posts []models.Postagem, cursor int) string {
	var b strings.Builder
	for i, p := range posts {
		marker := ""
		if i == cursor {
			marker = "▶ "
		}
		fmt.Fprintf(&b, "## %s%s\n\n", marker, p.Titulo)
		if p.Texto != "" {
			b.WriteString(p.Texto + "\n\n")
		}

		var meta []string
		if tema := p.TemaDescricao(); tema != "" {
			meta = append(meta, "Tema: "+tema)
		}
		if autor := p.Autor(); autor != "" {
			meta = append(meta, "Autor: "+autor)
		}
		if p.Data != "" {
			meta = append(meta, p.Data)
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))
		}
		if i < len(posts)-1 {
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

func (s *postagemListScreen) View() string {
	if !s.ctrl.Loaded() && s.ctrl.Fetching() {
		return LoadingOverlay(s.env.width, s.env.bodyHeight(), s.env.indicator)
	}
	if len(s.ctrl.Items()) == 0 {
		return titleStyle.Render("Postagens") + "\n\n" + mutedStyle.Render("Nenhuma postagem cadastrada") + "\n"
	}
	return titleStyle.Render("Postagens") + "\n" + s.viewport.View() + "\n"
}

func (s *postagemListScreen) Help() string {
	return "↑/↓: navegar • pgup/pgdn: rolar • n: nova • e: editar • d: apagar • r: recarregar • esc: início"
}

const (
	focusTitulo = iota
	focusTexto
	focusTema
	focusCount
)

type postagemFormScreen struct {
	env    *env
	ctrl   *forms.FormController[models.Postagem]
	temas  *forms.ListController[models.Tema]
	titulo *fieldSet
	texto  textarea.Model
	focus  int
	// fetch is the request id of the record load, cancelled on retarget
	fetch string
}

func newPostagemFormScreen(e *env, id int64) *postagemFormScreen {
	ta := textarea.New()
	ta.Placeholder = "Texto da postagem (markdown)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetWidth(60)
	ta.SetHeight(6)

	return &postagemFormScreen{
		env: e,
		ctrl: forms.NewFormController[models.Postagem](forms.Config[models.Postagem]{
			Repository: e.deps.Postagens,
			Session:    e.deps.Session,
			Resource:   forms.PostagemResource,
			Prepare:    stampAuthor,
			Recorder:   e.deps.Recorder,
		}, id),
		temas:  forms.NewListController[models.Tema](e.deps.Temas, e.deps.Session, forms.TemaResource),
		titulo: newFieldSet(newField(models.FieldTitulo, "Título", "Título da postagem")),
		texto:  ta,
	}
}

// stampAuthor sends the post as written by the logged in user
func stampAuthor(p models.Postagem, session auth.Session) models.Postagem {
	p.Usuario = session.Author()
	return p
}

func (s *postagemFormScreen) Init() tea.Cmd {
	var cmds []tea.Cmd
	if call, ok := s.temas.BeginLoad(); ok {
		cmds = append(cmds, run(s.env.tasks, call, func(items []models.Tema, err error) tea.Msg {
			return listLoadedMsg[models.Tema]{Items: items, Err: err}
		}))
	}
	cmds = append(cmds, s.load())
	return tea.Batch(cmds...)
}

func (s *postagemFormScreen) load() tea.Cmd {
	call, ok := s.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	s.fetch, cmd = track(s.env.tasks, call, func(p models.Postagem, err error) tea.Msg {
		return entityLoadedMsg[models.Postagem]{Entity: p, Err: err}
	})
	return cmd
}

// SetID follows a route change to another record without remounting
func (s *postagemFormScreen) SetID(id int64) tea.Cmd {
	if id != s.ctrl.ID() && s.fetch != "" {
		s.env.tasks.Cancel(s.fetch)
		s.fetch = ""
	}
	s.ctrl.SetID(id)
	s.sync()
	return s.load()
}

// sync copies the controller's record into the inputs
func (s *postagemFormScreen) sync() {
	p := s.ctrl.Entity()
	s.titulo.Set(models.FieldTitulo, p.Titulo)
	s.texto.SetValue(p.Texto)
}

func (s *postagemFormScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	s.texto.Blur()
	switch i {
	case focusTitulo:
		return s.titulo.FocusAt(0)
	case focusTexto:
		s.titulo.FocusAt(-1)
		return s.texto.Focus()
	default:
		s.titulo.FocusAt(-1)
		return nil
	}
}

// cycleTema moves the theme selection by delta through the loaded themes
func (s *postagemFormScreen) cycleTema(delta int) {
	temas := s.temas.Items()
	if len(temas) == 0 {
		return
	}
	current := -1
	if t := s.ctrl.Entity().Tema; t != nil {
		for i, candidate := range temas {
			if candidate.ID == t.ID {
				current = i
				break
			}
		}
	}
	next := (current + delta + len(temas)) % len(temas)
	if current < 0 && delta < 0 {
		next = len(temas) - 1
	}
	if err := s.ctrl.Edit(models.FieldTema, strconv.FormatInt(temas[next].ID, 10)); err != nil {
		log.Debug().Err(err).Msg("tema selection rejected")
	}
}

func (s *postagemFormScreen) temaLabel() string {
	t := s.ctrl.Entity().Tema
	if t == nil {
		return mutedStyle.Render("(selecione um tema)")
	}
	for _, candidate := range s.temas.Items() {
		if candidate.ID == t.ID {
			return candidate.Descricao
		}
	}
	if t.Descricao != "" {
		return t.Descricao
	}
	return fmt.Sprintf("tema %d", t.ID)
}

func (s *postagemFormScreen) submit() tea.Cmd {
	call, ok := s.ctrl.BeginSubmit()
	if !ok {
		return nil
	}
	return run(s.env.tasks, call, func(p models.Postagem, err error) tea.Msg {
		return entitySavedMsg[models.Postagem]{Entity: p, Err: err}
	})
}

func (s *postagemFormScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listLoadedMsg[models.Tema]:
		s.env.apply(s.temas.FinishLoad(msg.Items, msg.Err))
		return nil

	case entityLoadedMsg[models.Postagem]:
		out := s.ctrl.FinishLoad(msg.Entity, msg.Err)
		s.sync()
		s.env.apply(out)
		return nil

	case entitySavedMsg[models.Postagem]:
		s.env.apply(s.ctrl.FinishSubmit(msg.Entity, msg.Err))
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return navigateTo(routes.Postagens)
		case "tab":
			return s.setFocus((s.focus + 1) % focusCount)
		case "shift+tab":
			return s.setFocus((s.focus - 1 + focusCount) % focusCount)
		case "ctrl+s":
			return s.submit()
		case "enter":
			if s.focus != focusTexto {
				return s.submit()
			}
		}
		if s.ctrl.Loading() || s.ctrl.Fetching() {
			return nil
		}

		switch s.focus {
		case focusTitulo:
			name, value, changed, cmd := s.titulo.Update(msg)
			if changed {
				if err := s.ctrl.Edit(name, value); err != nil {
					log.Debug().Err(err).Msg("postagem edit rejected")
				}
			}
			return cmd
		case focusTexto:
			before := s.texto.Value()
			var cmd tea.Cmd
			s.texto, cmd = s.texto.Update(msg)
			if after := s.texto.Value(); after != before {
				if err := s.ctrl.Edit(models.FieldTexto, after); err != nil {
					log.Debug().Err(err).Msg("postagem edit rejected")
				}
			}
			return cmd
		case focusTema:
			switch msg.String() {
			case "left", "h":
				s.cycleTema(-1)
			case "right", "l", " ":
				s.cycleTema(1)
			}
		}
	}
	return nil
}

func (s *postagemFormScreen) View() string {
	if s.ctrl.Fetching() {
		return LoadingOverlay(s.env.width, s.env.bodyHeight(), s.env.indicator)
	}
	title, label := "Cadastrar Postagem", "Cadastrar"
	if s.ctrl.Mode() == forms.EditMode {
		title, label = "Editar Postagem", "Atualizar"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(s.titulo.View())

	textoLabel := labelStyle.Render("Texto")
	if s.focus == focusTexto {
		textoLabel = selectedStyle.Render("Texto")
	}
	b.WriteString(textoLabel + "\n" + s.texto.View() + "\n\n")

	temaLabel := labelStyle.Render("Tema")
	if s.focus == focusTema {
		temaLabel = selectedStyle.Render("Tema")
	}
	b.WriteString(temaLabel + "\n")
	if s.temas.Fetching() {
		b.WriteString(s.env.indicator.View() + "\n\n")
	} else {
		b.WriteString("◀ " + s.temaLabel() + " ▶\n\n")
	}

	if s.ctrl.Loading() {
		b.WriteString(button(s.env.indicator.View(), true))
	} else {
		b.WriteString(button(label, false))
	}
	b.WriteString("\n")
	return b.String()
}

func (s *postagemFormScreen) Help() string {
	return "tab: próximo campo • ←/→: escolher tema • ctrl+s: salvar • esc: voltar"
}
