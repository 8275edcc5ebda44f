package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/srtrans/internal/config"
	"github.com/MimeLyc/srtrans/pkg/log"
)

var (
	verbose    bool
	envFile    string
	apiKey     string
	sourceLang string
	targetLang string
)

var rootCmd = &cobra.Command{
	Use:   "srtrans",
	Short: "Batch translator for SRT subtitle files",
	Long: `srtrans translates folders of SRT subtitle files through a remote
translation endpoint. Each file is written next to its source as
<name>_translated.srt and the source is removed once the output is saved.

Configuration comes from the environment (optionally a .env file); flags
override it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		level := log.ParseLevel(os.Getenv("LOG_LEVEL"))
		if verbose {
			level = log.LevelDebug
		}
		log.InitLogger(level)
		return nil
	},
}

func Execute() error {
	defer func() { _ = log.GetLogger().Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&envFile, "env-file", ".env", "Path of a .env file to load")
	rootCmd.PersistentFlags().
		StringVarP(&apiKey, "api-key", "k", "", "Translation API key (overrides TRANSLATE_API_KEY)")
	rootCmd.PersistentFlags().
		StringVarP(&sourceLang, "source", "s", "", "Source language code or auto (overrides SOURCE_LANG)")
	rootCmd.PersistentFlags().
		StringVarP(&targetLang, "target", "t", "", "Target language code (overrides TARGET_LANG)")
}

// loadConfig builds the configuration from the environment plus the global flags.
func loadConfig(extra ...config.Option) (*config.Config, error) {
	opts := []config.Option{
		config.WithAPIKey(strings.TrimSpace(apiKey)),
		config.WithLanguages(strings.TrimSpace(sourceLang), strings.TrimSpace(targetLang)),
	}
	return config.NewFromEnv(append(opts, extra...)...)
}
