package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/strrl/blogpessoal/internal/db"
	"github.com/strrl/blogpessoal/internal/journal"
	"gopkg.in/yaml.v3"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int
	var output string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the journal of creates, updates and deletes done from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit, output)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

type history struct {
	Entries []journal.Entry `json:"entries" yaml:"entries"`
	Summary []journal.Count `json:"summary" yaml:"summary"`
}

func runHistory(cmd *cobra.Command, limit int, output string) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	conn, err := db.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	j := journal.New(conn)
	defer j.Close()

	ctx := cmd.Context()
	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}
	summary, err := j.Summary(ctx)
	if err != nil {
		return err
	}
	return printHistory(cmd.OutOrStdout(), history{Entries: entries, Summary: summary}, output)
}

func printHistory(w io.Writer, h history, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(h); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if len(h.Entries) == 0 {
		fmt.Fprintln(w, "No journal entries")
		return nil
	}

	entries := newTable("Quando", "Recurso", "Ação", "ID", "Resultado", "Detalhe")
	for _, e := range h.Entries {
		entries.Row(
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.Resource,
			e.Action,
			strconv.FormatInt(e.EntityID, 10),
			e.Outcome,
			truncateString(e.Detail, 60),
		)
	}
	fmt.Fprintf(w, "Últimas operações\n%s\n", entries.Render())

	summary := newTable("Recurso", "Resultado", "Total")
	for _, c := range h.Summary {
		summary.Row(c.Resource, c.Outcome, strconv.FormatInt(c.N, 10))
	}
	fmt.Fprintf(w, "Resumo\n%s\n", summary.Render())
	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
