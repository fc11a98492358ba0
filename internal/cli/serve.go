package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"claimdesk/internal/httpapi"
	"claimdesk/internal/scheduler"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and periodic ingestion when INGEST_INTERVAL is set)",
	Long: `Serve exposes:
  GET|POST /api/ingest            ingest RSS_FEEDS (Authorization: Bearer $INGEST_SECRET)
  GET      /api/suggest-claims    ?key=<moderator key>&articleId=<uuid>
  GET      /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	feeds := cfg.Feeds()
	schedDone := startScheduler(ctx, a, feeds, cfg.IngestInterval)

	api := httpapi.New(a.ingest, a.suggest, cfg.IngestSecret, feeds, log)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + cfg.FeedTimeout*time.Duration(max(len(feeds), 1)) + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}

	// Stop the scheduler before the deferred a.Close releases the store.
	cancel()
	<-schedDone
	return serveErr
}

// startScheduler runs periodic ingestion until ctx is done. The returned
// channel is closed once the scheduler has stopped, or immediately when
// periodic ingestion is disabled.
func startScheduler(ctx context.Context, a *app, feeds []string, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 || a.store == nil || len(feeds) == 0 {
		close(done)
		return done
	}

	sched := scheduler.New(a.ingest, feeds, a.reporter, a.log)
	sched.SetTickInterval(interval)
	go func() {
		defer close(done)
		sched.Run(ctx)
	}()
	a.log.Info("periodic ingestion enabled", "interval", interval, "feeds", len(feeds))
	return done
}
