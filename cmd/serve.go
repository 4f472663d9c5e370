package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/storage"
	"github.com/Zachkp/portfolio/internal/web"
)

const cleanupEvery = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	Long: `Start the HTTP server for the portfolio page.

Configuration is read from the environment (and a .env file when present):
PORT, PORTFOLIO_CONTENT, PORTFOLIO_ASSETS_DIR, PORTFOLIO_DB_PATH,
PORTFOLIO_ANALYTICS, PORTFOLIO_COOKIE_SECURE, ADMIN_USERNAME, ADMIN_PASSWORD
and the SMTP_* settings for the contact form.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c, err := loadContent(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := web.Options{
		Content:      c,
		AssetsDir:    cfg.AssetsDir,
		CookieSecure: cfg.CookieSecure,
	}

	if cfg.SMTP.Configured() {
		opts.Mailer = contact.NewSMTPMailer(cfg.SMTP, c.ContactEmail())
	} else {
		log.Println("SMTP credentials not set, contact form submissions will be refused")
	}

	if cfg.Analytics {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		tracker := analytics.NewTracker(db)
		defer tracker.Wait()
		go runCleanup(ctx, tracker)

		user, pass := cfg.AdminCredentials()
		opts.Tracker = tracker
		opts.Admin = analytics.NewAdmin(tracker, user, pass, cfg.CookieSecure)
		log.Printf("Analytics enabled, database at %s", db.Path())
	}

	srv, err := web.New(opts)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s", cfg.Addr())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// runCleanup applies the retention policy at startup and then daily.
func runCleanup(ctx context.Context, tracker *analytics.Tracker) {
	tracker.Cleanup(ctx)

	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tracker.Cleanup(ctx)
		}
	}
}
