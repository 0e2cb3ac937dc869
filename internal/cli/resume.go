package cli

import (
	"strings"

	"hirelane/internal/domain/resume"

	"github.com/spf13/cobra"
)

var resumeCheckCmd = &cobra.Command{
	Use:   "resume-check [resume.json]",
	Short: "Report resume completeness and detected keywords",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r resume.Resume
		if err := readJSONFile(args[0], &r); err != nil {
			return err
		}

		out := struct {
			Completeness resume.CompletenessReport `json:"completeness"`
			Keywords     resume.KeywordReport      `json:"keywords"`
		}{
			Completeness: resume.Analyze(r),
			Keywords:     resume.ExtractKeywords(resumeText(r)),
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func resumeText(r resume.Resume) string {
	parts := []string{r.Summary}
	for _, e := range r.Experience {
		parts = append(parts, e.Title, e.Description)
		parts = append(parts, e.Achievements...)
	}
	for _, p := range r.Projects {
		parts = append(parts, p.Description)
		parts = append(parts, p.Technologies...)
	}
	parts = append(parts, r.AllSkills()...)
	return strings.Join(parts, "\n")
}
