// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/autosurvey/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the reference corpus (ingest, query, export)",
	Long: `Corpus manages the local SQLite reference store the survey retrieves from.
Reference files live in <corpus-dir>/sources/: YAML files holding a list of
{id, title, content} entries, or Markdown files holding one reference each.`,
}

// --- ingest subcommand ---

var corpusIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index reference files into the corpus",
	Long: `Ingest reads reference files from <corpus-dir>/sources/, indexes them with
FTS5, and writes an export file. Unchanged files are skipped on later runs.`,
	RunE: runCorpusIngest,
}

func runCorpusIngest(cmd *cobra.Command, args []string) error {
	store, err := corpus.NewStore(corpusConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}
	n, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("corpus holds %d references\n", n)
	if summary.Failed > 0 {
		return fmt.Errorf("%d source file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var corpusQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Show the references a retrieval query returns",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCorpusQuery,
}

func runCorpusQuery(cmd *cobra.Command, args []string) error {
	store, err := corpus.NewStore(corpusConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	k, _ := cmd.Flags().GetInt("k")
	ctx := cmd.Context()
	ids, err := store.QueryTopK(ctx, strings.Join(args, " "), k, false)
	if err != nil {
		return err
	}
	refs, err := store.FetchByIDs(ctx, ids)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	}

	if len(refs) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %s\n", "Rank", "ID", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for i, r := range refs {
		id := r.ID
		if len(id) > 24 {
			id = id[:21] + "..."
		}
		title := r.Title
		if len(title) > 58 {
			title = title[:55] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %s\n", i+1, id, title)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(refs))
	return nil
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus to YAML or JSON",
	Long: `Export writes every stored reference to <corpus-dir>/index/export.yaml
or export.json.`,
	RunE: runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := corpus.NewStore(corpusConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	switch format {
	case "yaml", "":
		if err := store.ExportYAML(ctx); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.yaml")
	case "json":
		if err := store.ExportJSON(ctx); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	addCorpusFlags(corpusCmd.PersistentFlags())

	corpusQueryCmd.Flags().Int("k", 0, "number of references to return (0 = max-results)")
	corpusQueryCmd.Flags().Bool("json", false, "output references as JSON")

	corpusExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	corpusCmd.AddCommand(corpusIngestCmd)
	corpusCmd.AddCommand(corpusQueryCmd)
	corpusCmd.AddCommand(corpusExportCmd)

	rootCmd.AddCommand(corpusCmd)
}
