package cli

import (
	"fmt"

	"hirelane/internal/database/migration"
	"hirelane/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply the embedded V<n>__<name>.sql migrations in version order.
Already applied files are verified by checksum and skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, log, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		r := migration.Runner{FS: migrations.FS, Logger: log}
		if migrateDir != "" {
			r = migration.Runner{Dir: migrateDir, Logger: log}
		}
		n, err := r.Run(cmd.Context(), db.SQLDB())
		if err != nil {
			return err
		}
		log.Info("migrations complete", zap.Int("applied", n))
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "read migrations from this directory instead of the embedded set")
}
