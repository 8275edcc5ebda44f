package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/srtrans/internal/persistence"
	"github.com/MimeLyc/srtrans/internal/service"
	"github.com/MimeLyc/srtrans/pkg/file"
	"github.com/MimeLyc/srtrans/pkg/log"
)

var translateCmd = &cobra.Command{
	Use:   "translate [folder | file.srt ...]",
	Short: "Translate a folder or a list of SRT files",
	Long: `Translate every pending .srt file of a folder (not recursive), or the
files given on the command line, one after another. A failing file is
reported and the remaining files are still translated.

Examples:
  srtrans translate ./subs
  srtrans translate -t vi movie.srt episode2.srt
  srtrans translate ./subs --no-history`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		Bool("no-history", false, "Do not record the batch in the history database")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	folder, files, err := collectFiles(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to translate")
		return nil
	}

	opts := []service.ServiceOption{}
	if !noHistory {
		store, err := persistence.NewSQLiteStore(cfg.DBPath())
		if err != nil {
			log.Warn("History disabled: %v", err)
		} else {
			defer store.Close()
			opts = append(opts, service.WithHistoryStore(store))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.NewTransService(*cfg, cron.New(), opts...)
	result, runErr := svc.RunFiles(ctx, folder, files, progressPrinter(out, files))
	if result != nil {
		printResult(out, result)
	}
	if runErr != nil {
		return runErr
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(result.Failed), len(files))
	}
	return nil
}

// collectFiles expands a single folder argument or takes the arguments as files.
func collectFiles(args []string) (string, []file.SubtitleFile, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return "", nil, err
		}
		if info.IsDir() {
			files, err := service.PendingFiles(args[0])
			return args[0], files, err
		}
	}

	files := make([]file.SubtitleFile, 0, len(args))
	for _, arg := range args {
		f, err := file.Stat(arg)
		if err != nil {
			return "", nil, err
		}
		files = append(files, f)
	}
	return "", files, nil
}

func progressPrinter(out io.Writer, files []file.SubtitleFile) service.BatchFileProgressFunc {
	return func(index, progress int) {
		if progress == 100 {
			fmt.Fprintf(out, "[%d/%d] %s done\n", index+1, len(files), files[index].Name)
		}
	}
}

func printResult(out io.Writer, result *service.BatchResult) {
	fmt.Fprintf(out, "Translated %d file(s), %d failed\n", len(result.Success), len(result.Failed))
	for _, f := range result.Failed {
		fmt.Fprintf(out, "  FAILED %s: %s\n", f.Path, f.Error)
	}
}

