package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studyhub/internal/app"
	"studyhub/internal/auth"
	"studyhub/internal/config"
	transport "studyhub/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	var seedPath string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the API and exam server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, seedPath)
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML quiz file to load before serving")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag, seedPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	if cfg.Auth.Secret == "" {
		return errors.New("auth secret not configured")
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)
	identity := auth.NewProvider(b.records, b.revocations, cfg.Auth.Secret, tokenTTL)

	catalog := app.NewQuizCatalog(b.quizzes, b.records)
	if seedPath != "" {
		if err := seedQuizzes(ctx, catalog, seedPath); err != nil {
			return err
		}
	}

	examCfg := app.ExamConfig{
		QuestionSeconds: cfg.Exam.QuestionSeconds,
		TickInterval:    config.TTLDuration(cfg.Exam.TickInterval, time.Second),
	}
	submitter := app.NewSubmitter(b.records, b.records, b.notifier)
	router := transport.NewRouter(transport.Services{
		Accounts:  app.NewAccounts(identity, b.records),
		Catalog:   catalog,
		Materials: app.NewMaterials(b.records),
		Exams:     app.NewExamService(b.sessions, b.quizzes, submitter, examCfg),
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting studyhub on :%s (storage=%s)", finalPort, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
