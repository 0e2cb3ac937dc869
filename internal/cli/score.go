package cli

import (
	"fmt"

	"hirelane/internal/domain/matching"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [candidate.json] [requirements.json]",
	Short: "Score a candidate profile against opportunity requirements",
	Long: `Run the deterministic matcher on two JSON files: a candidate profile
(skills, experience_years, education_level, location_preference) and the
opportunity requirements (required_skills, min_experience_years,
required_education, location_type). Use - to read one of them from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cand matching.CandidateProfile
			req  matching.OpportunityRequirements
		)
		if args[0] == "-" && args[1] == "-" {
			return fmt.Errorf("only one input may come from stdin")
		}
		if err := readJSONFile(args[0], &cand); err != nil {
			return err
		}
		if err := readJSONFile(args[1], &req); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), matching.Score(cand, req))
	},
}
