package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/srtrans/internal/config"
	"github.com/MimeLyc/srtrans/internal/httpapi"
	"github.com/MimeLyc/srtrans/internal/persistence"
	"github.com/MimeLyc/srtrans/internal/service"
	"github.com/MimeLyc/srtrans/pkg/log"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Watch a folder on a cron schedule and serve the status API",
	Long: `Run the watch service: every CRON_EXPR trigger translates the pending
files of WATCH_DIR, and an HTTP API reports the current batch, the
history of finished batches, and can start a batch on demand.

Examples:
  srtrans serve --watch ./subs
  srtrans serve --watch ./subs --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		StringP("watch", "w", "", "Folder to translate on every trigger (overrides WATCH_DIR)")
	serveCmd.Flags().
		String("addr", "", "HTTP listen address (overrides HTTP_ADDR)")
}

type scheduler interface {
	Schedule(ctx context.Context) error
}

type cronEngine interface {
	Start()
	Stop() context.Context
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

var (
	_ scheduler  = (*service.TransService)(nil)
	_ cronEngine = (*cron.Cron)(nil)
	_ httpServer = (*httpapi.Server)(nil)
)

func runServe(cmd *cobra.Command, args []string) error {
	watchDir, _ := cmd.Flags().GetString("watch")
	addr, _ := cmd.Flags().GetString("addr")

	cfg, err := loadConfig(config.WithWatchDir(watchDir), config.WithHTTPAddr(addr))
	if err != nil {
		return err
	}

	store, err := persistence.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New()
	svc := service.NewTransService(*cfg, c, service.WithHistoryStore(store))
	// runs before store.Close: a batch started over HTTP saves its history on the way out
	defer svc.Wait()
	srv := httpapi.NewServer(svc, store, httpapi.WithBaseContext(ctx))

	return runWithComponents(ctx, cfg, svc, c, srv)
}

// runWithComponents schedules the watch job, starts the cron and the HTTP
// server, and blocks until ctx is done or the server fails.
func runWithComponents(
	ctx context.Context,
	cfg *config.Config,
	sched scheduler,
	engine cronEngine,
	srv httpServer,
) error {
	if err := sched.Schedule(ctx); err != nil {
		return err
	}
	engine.Start()
	defer func() {
		<-engine.Stop().Done()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
