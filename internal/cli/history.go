package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/srtrans/internal/persistence"
)

var historyCmd = &cobra.Command{
	Use:   "history [batch-id]",
	Short: "Show finished batches",
	Long: `List the most recent batches, or the per-file outcome of one batch.

Examples:
  srtrans history
  srtrans history --limit 5 --json
  srtrans history 3f0c8a2e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().
		IntP("limit", "n", 20, "Number of batches to list")
	historyCmd.Flags().
		Bool("json", false, "Print JSON instead of a table")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := persistence.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		rec, ok, err := store.GetBatch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("batch %s not found", args[0])
		}
		if asJSON {
			return json.NewEncoder(out).Encode(rec)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "FILE\tSTATUS\tERROR\n")
		for _, f := range rec.Files {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Path, f.Status, f.Error)
		}
		return tw.Flush()
	}

	records, err := store.ListBatches(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if asJSON {
		return json.NewEncoder(out).Encode(records)
	}
	printBatches(out, records)
	return nil
}

func printBatches(out io.Writer, records []persistence.BatchRecord) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tFINISHED\tFOLDER\tLANG\tOK\tFAILED\n")
	for _, r := range records {
		status := fmt.Sprintf("%d", r.Failed)
		if r.Canceled {
			status += " (canceled)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s->%s\t%d/%d\t%s\n",
			r.ID, r.FinishedAt.Local().Format(time.DateTime), r.Folder,
			r.SourceLang, r.TargetLang, r.Succeeded, r.Total, status)
	}
	_ = tw.Flush()
}
