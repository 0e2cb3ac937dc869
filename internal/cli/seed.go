package cli

import (
	"fmt"

	"hirelane/internal/database/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the administrator account and optional demo data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, db, log, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		r := seeder.Runner{Seeders: seeder.Defaults(cfg.Seed, seedDemo)}
		if err := r.Run(cmd.Context(), db); err != nil {
			return err
		}
		log.Info("seed complete", zap.Bool("demo", seedDemo))
		fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create a demo employer with open jobs and gigs")
}
