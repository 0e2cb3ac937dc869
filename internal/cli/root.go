package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hirelane/internal/config"
	"hirelane/internal/database"
	dbpostgres "hirelane/internal/database/postgres"
	"hirelane/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "hirelanectl",
	Short: "Operate the hirelane matching and application service",
	Long: `hirelanectl runs schema migrations and seeders against the service
database, and scores candidates or checks resumes offline without a server.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(resumeCheckCmd)
}

// connect loads configuration and opens the database for commands that
// need one.
func connect(ctx context.Context) (config.Config, database.DB, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, db, log, nil
}

func readJSONFile(path string, out any) error {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
