package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/pkg/models"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type showOptions struct {
	usuario string
	senha   string
	output  string
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show [temas|postagens]",
		Short: "Print themes and posts without the TUI",
		Long: `Log in and print the themes, the posts, or both.
Credentials come from --usuario/--senha or BP_USUARIO/BP_SENHA.
Without an argument both lists are fetched.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"temas", "postagens"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.usuario, "usuario", "u", "", "user e-mail (defaults to BP_USUARIO)")
	cmd.Flags().StringVarP(&opts.senha, "senha", "p", "", "password (defaults to BP_SENHA)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

// listing is what show prints
type listing struct {
	Temas     []models.Tema     `json:"temas,omitempty" yaml:"temas,omitempty"`
	Postagens []models.Postagem `json:"postagens,omitempty" yaml:"postagens,omitempty"`
}

func runShow(cmd *cobra.Command, opts *showOptions, args []string) error {
	switch opts.output {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.usuario == "" {
		opts.usuario = cfg.Usuario
	}
	if opts.senha == "" {
		opts.senha = cfg.Senha
	}
	if opts.usuario == "" || opts.senha == "" {
		return fmt.Errorf("credentials required: use --usuario/--senha or BP_USUARIO/BP_SENHA")
	}

	ctx := cmd.Context()
	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout)
	store := auth.NewStore(client)
	session, err := store.Login(ctx, models.UsuarioLogin{Usuario: opts.usuario, Senha: opts.senha})
	if err != nil {
		return err
	}

	what := ""
	if len(args) == 1 {
		what = args[0]
	}
	out, err := fetchListing(ctx, client, session.Token, what)
	if err != nil {
		return err
	}
	return printListing(cmd.OutOrStdout(), out, opts.output)
}

// fetchListing loads the requested lists, both of them concurrently when what is empty
func fetchListing(ctx context.Context, client *api.Client, token, what string) (listing, error) {
	var out listing
	g, ctx := errgroup.WithContext(ctx)

	if what == "" || what == "temas" {
		g.Go(func() error {
			temas, err := api.Temas(client).List(ctx, token)
			if err != nil {
				return fmt.Errorf("failed to list temas: %w", err)
			}
			out.Temas = temas
			return nil
		})
	}
	if what == "" || what == "postagens" {
		g.Go(func() error {
			postagens, err := api.Postagens(client).List(ctx, token)
			if err != nil {
				return fmt.Errorf("failed to list postagens: %w", err)
			}
			out.Postagens = postagens
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return listing{}, err
	}
	return out, nil
}

func printListing(w io.Writer, out listing, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}

	if out.Temas != nil {
		t := newTable("ID", "Descrição")
		for _, tema := range out.Temas {
			t.Row(strconv.FormatInt(tema.ID, 10), tema.Descricao)
		}
		fmt.Fprintf(w, "Temas (%d)\n%s\n", len(out.Temas), t.Render())
	}
	if out.Postagens != nil {
		t := newTable("ID", "Título", "Tema", "Autor", "Data")
		for _, p := range out.Postagens {
			t.Row(strconv.FormatInt(p.ID, 10), p.Titulo, p.TemaDescricao(), p.Autor(), p.Data)
		}
		fmt.Fprintf(w, "Postagens (%d)\n%s\n", len(out.Postagens), t.Render())
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(headers...)
}
