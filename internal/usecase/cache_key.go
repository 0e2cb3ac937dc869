package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"hirelane/internal/domain/matching"

	"github.com/google/uuid"
)

const (
	matchCachePrefix = "match:ai:"
	applyLockPrefix  = "apply:lock:"
)

type matchCacheKeyInput struct {
	Skills             []string `json:"skills"`
	ExperienceYears    float64  `json:"experience_years"`
	EducationLevel     string   `json:"education_level"`
	LocationPreference string   `json:"location_preference"`

	RequiredSkills     []string `json:"required_skills"`
	MinExperienceYears float64  `json:"min_experience_years"`
	RequiredEducation  string   `json:"required_education"`
	LocationType       string   `json:"location_type"`
}

func normalizeKeyValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func normalizeKeyList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = normalizeKeyValue(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// MatchCacheKey identifies an AI match result by its inputs. Skill order,
// case and duplicates do not change the key.
func MatchCacheKey(candidate matching.CandidateProfile, req matching.OpportunityRequirements) string {
	in := matchCacheKeyInput{
		Skills:             normalizeKeyList(candidate.Skills),
		ExperienceYears:    candidate.ExperienceYears,
		EducationLevel:     normalizeKeyValue(string(candidate.EducationLevel)),
		LocationPreference: normalizeKeyValue(candidate.LocationPreference),
		RequiredSkills:     normalizeKeyList(req.RequiredSkills),
		MinExperienceYears: req.MinExperienceYears,
		RequiredEducation:  normalizeKeyValue(string(req.RequiredEducation)),
		LocationType:       normalizeKeyValue(string(req.LocationType)),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return matchCachePrefix + hex.EncodeToString(sum[:])
}

func ApplyLockKey(candidateID, opportunityID uuid.UUID) string {
	return applyLockPrefix + candidateID.String() + ":" + opportunityID.String()
}
