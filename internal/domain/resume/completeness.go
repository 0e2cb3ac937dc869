package resume

import (
	"strings"
	"unicode/utf8"
)

const (
	minSummaryChars = 50
	maxCompleteness = 100
)

type CompletenessReport struct {
	Score   int      `json:"score"`
	Missing []string `json:"missing,omitempty"`
}

// Completeness grades a resume against a fixed-weight checklist.
func Completeness(r Resume) int {
	return Analyze(r).Score
}

// Analyze returns the completeness score together with the checklist
// sections that earned nothing.
func Analyze(r Resume) CompletenessReport {
	score := 0
	var missing []string

	add := func(ok bool, pts int, name string) {
		if ok {
			score += pts
			return
		}
		if name != "" {
			missing = append(missing, name)
		}
	}

	pi := r.PersonalInfo
	add(present(pi.FullName), 5, "full_name")
	add(present(pi.Email), 5, "email")
	add(present(pi.Phone), 5, "phone")
	add(present(pi.Location), 5, "location")

	add(utf8.RuneCountInString(strings.TrimSpace(r.Summary)) >= minSummaryChars, 15, "summary")

	exp := len(r.Experience)
	add(exp > 0, 15, "experience")
	add(exp >= 2, 5, "")
	add(hasAchievements(r.Experience), 5, "")

	edu := len(r.Education)
	add(edu > 0, 10, "education")
	add(edu >= 2, 5, "")

	skills := len(r.AllSkills())
	add(skills > 0, 5, "skills")
	add(skills >= 5, 5, "")
	add(skills >= 10, 5, "")

	add(len(r.Certifications) > 0, 3, "certifications")
	add(len(r.Projects) > 0, 3, "projects")
	add(present(pi.LinkedIn), 2, "linkedin")
	add(present(pi.Portfolio), 2, "portfolio")

	if score > maxCompleteness {
		score = maxCompleteness
	}
	return CompletenessReport{Score: score, Missing: missing}
}

func hasAchievements(entries []Experience) bool {
	for _, e := range entries {
		for _, a := range e.Achievements {
			if present(a) {
				return true
			}
		}
	}
	return false
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
