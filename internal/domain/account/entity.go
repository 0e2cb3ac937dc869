package account

import (
	"strings"
	"time"

	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/resume"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleEmployer:
		return RoleEmployer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Account is the single account type for candidates, employers and
// administrators. Candidate-only fields stay empty for the other roles.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	FullName     string    `json:"full_name"`

	Skills             []string                `json:"skills,omitempty"`
	ExperienceYears    float64                 `json:"experience_years,omitempty"`
	EducationLevel     matching.EducationLevel `json:"education_level,omitempty"`
	LocationPreference string                  `json:"location_preference,omitempty"`
	Resume             *resume.Resume          `json:"resume,omitempty"`

	CompanyName string `json:"company_name,omitempty"`
	HiresCount  int    `json:"hires_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CandidateSnapshot copies the fields used for matching so later profile
// edits do not leak into stored match results. Resume skills fill in when
// the profile has none of its own.
func (a Account) CandidateSnapshot() matching.CandidateProfile {
	skills := a.Skills
	if len(skills) == 0 && a.Resume != nil {
		skills = a.Resume.AllSkills()
	}
	cp := make([]string, len(skills))
	copy(cp, skills)

	return matching.CandidateProfile{
		Skills:             cp,
		ExperienceYears:    a.ExperienceYears,
		EducationLevel:     a.EducationLevel,
		LocationPreference: a.LocationPreference,
	}
}

func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}
