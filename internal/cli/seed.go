package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"studyhub/internal/app"
	"studyhub/internal/config"
	"studyhub/internal/domain"
)

type seedFile struct {
	Quizzes []domain.QuizInput `yaml:"quizzes"`
}

// NewSeedCmd imports quizzes from a YAML file into the configured storage.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Import quizzes from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver == config.DriverMemory {
				return fmt.Errorf("seed needs persistent storage; use start --seed with the memory driver")
			}
			b, err := openBackends(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			return seedQuizzes(ctx, app.NewQuizCatalog(b.quizzes, b.records), args[0])
		},
	}
}

// seedQuizzes validates and stores every quiz in path, stopping at the first bad one.
func seedQuizzes(ctx context.Context, catalog *app.QuizCatalog, path string) error {
	quizzes, err := readSeedFile(path)
	if err != nil {
		return err
	}
	for i, in := range quizzes {
		if _, err := catalog.Create(ctx, in); err != nil {
			return fmt.Errorf("seed quiz %d (%q): %w", i+1, in.Question, err)
		}
	}
	log.Printf("seeded %d quizzes from %s", len(quizzes), path)
	return nil
}

func readSeedFile(path string) ([]domain.QuizInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return file.Quizzes, nil
}
