package matching

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	WeightSkills     = 40
	WeightExperience = 30
	WeightEducation  = 20
	WeightLocation   = 10

	// non-remote opportunities keep this share of the location weight
	onsiteLocationRatio = 0.8

	maxHighlights = 3
)

type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high_school"
	EducationAssociate  EducationLevel = "associate"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationPhD        EducationLevel = "phd"
)

var educationRank = map[EducationLevel]int{
	EducationHighSchool: 0,
	EducationAssociate:  1,
	EducationBachelor:   2,
	EducationMaster:     3,
	EducationPhD:        4,
}

// ParseEducationLevel accepts the canonical values plus common spellings
// ("High School", "PhD", "Master's"). Unknown input reports false.
func ParseEducationLevel(s string) (EducationLevel, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_", "'", "", ".", "").Replace(key)
	switch key {
	case "high_school", "highschool", "secondary":
		return EducationHighSchool, true
	case "associate", "associates", "diploma":
		return EducationAssociate, true
	case "bachelor", "bachelors", "bsc", "ba", "undergraduate":
		return EducationBachelor, true
	case "master", "masters", "msc", "ma", "mba":
		return EducationMaster, true
	case "phd", "doctorate", "doctoral":
		return EducationPhD, true
	default:
		return "", false
	}
}

type LocationType string

const (
	LocationRemote LocationType = "remote"
	LocationOnsite LocationType = "onsite"
	LocationHybrid LocationType = "hybrid"
)

func ParseLocationType(s string) (LocationType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote":
		return LocationRemote, true
	case "onsite", "on-site", "on_site", "office":
		return LocationOnsite, true
	case "hybrid":
		return LocationHybrid, true
	default:
		return "", false
	}
}

type CandidateProfile struct {
	Skills             []string       `json:"skills"`
	ExperienceYears    float64        `json:"experience_years"`
	EducationLevel     EducationLevel `json:"education_level,omitempty"`
	LocationPreference string         `json:"location_preference,omitempty"`
}

type Compensation struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

type OpportunityRequirements struct {
	RequiredSkills     []string       `json:"required_skills"`
	MinExperienceYears float64        `json:"min_experience_years"`
	RequiredEducation  EducationLevel `json:"required_education,omitempty"`
	LocationType       LocationType   `json:"location_type,omitempty"`
	Compensation       Compensation   `json:"compensation"`
}

type Tier string

const (
	TierExcellentFit   Tier = "excellent_fit"
	TierGoodFit        Tier = "good_fit"
	TierPotentialFit   Tier = "potential_fit"
	TierNotRecommended Tier = "not_recommended"
)

// Factor is one weighted component of a match. Score is the percentage of
// the weight that was earned, Points the earned share of the overall score.
type Factor struct {
	Score  int    `json:"score"`
	Points int    `json:"points"`
	Weight int    `json:"weight"`
	Detail string `json:"detail"`
}

type Breakdown struct {
	Skills     Factor `json:"skills"`
	Experience Factor `json:"experience"`
	Education  Factor `json:"education"`
	Location   Factor `json:"location"`
}

type Result struct {
	OverallScore  int       `json:"overall_score"`
	Breakdown     Breakdown `json:"breakdown"`
	Strengths     []string  `json:"strengths"`
	Concerns      []string  `json:"concerns"`
	Tier          Tier      `json:"recommendation_tier"`
	MatchedSkills []string  `json:"matched_skills"`
	MissingSkills []string  `json:"missing_skills"`
}

// Score computes the weighted compatibility of a candidate against an
// opportunity. It is pure and never fails.
func Score(candidate CandidateProfile, req OpportunityRequirements) Result {
	skills := scoreSkills(candidate.Skills, req.RequiredSkills)
	exp := scoreExperience(candidate.ExperienceYears, req.MinExperienceYears)
	edu := scoreEducation(candidate.EducationLevel, req.RequiredEducation)
	loc := scoreLocation(req.LocationType)

	total := skills.points + exp.points + edu.points + loc.points
	overall := clampInt(int(math.Round(total)), 0, 100)

	strengths := make([]string, 0, maxHighlights)
	concerns := make([]string, 0, maxHighlights)
	for _, p := range []partial{skills.partial, exp, edu, loc} {
		if p.strength != "" && len(strengths) < maxHighlights {
			strengths = append(strengths, p.strength)
		}
		if p.concern != "" && len(concerns) < maxHighlights {
			concerns = append(concerns, p.concern)
		}
	}

	return Result{
		OverallScore: overall,
		Breakdown: Breakdown{
			Skills:     skills.factor(WeightSkills),
			Experience: exp.factor(WeightExperience),
			Education:  edu.factor(WeightEducation),
			Location:   loc.factor(WeightLocation),
		},
		Strengths:     strengths,
		Concerns:      concerns,
		Tier:          TierFor(overall),
		MatchedSkills: skills.matched,
		MissingSkills: skills.missing,
	}
}

func TierFor(overall int) Tier {
	switch {
	case overall >= 80:
		return TierExcellentFit
	case overall >= 65:
		return TierGoodFit
	case overall >= 50:
		return TierPotentialFit
	default:
		return TierNotRecommended
	}
}

type partial struct {
	points   float64
	detail   string
	strength string
	concern  string
}

func (p partial) factor(weight int) Factor {
	pct := 0.0
	if weight > 0 {
		pct = p.points / float64(weight) * 100
	}
	return Factor{
		Score:  clampInt(int(math.Round(pct)), 0, 100),
		Points: clampInt(int(math.Round(p.points)), 0, weight),
		Weight: weight,
		Detail: p.detail,
	}
}

type skillsPartial struct {
	partial
	matched []string
	missing []string
}

func scoreSkills(candidateSkills, requiredSkills []string) skillsPartial {
	required := normalizeSkills(requiredSkills)
	have := normalizeSkills(candidateSkills)

	if len(required) == 0 {
		return skillsPartial{
			partial: partial{
				points:   WeightSkills,
				detail:   "no specific skills required",
				strength: "No specific skills are required",
			},
			matched: []string{},
			missing: []string{},
		}
	}

	matched := make([]string, 0, len(required))
	missing := make([]string, 0)
	for _, r := range required {
		if skillMatches(r, have) {
			matched = append(matched, r)
		} else {
			missing = append(missing, r)
		}
	}

	frac := float64(len(matched)) / float64(len(required))
	out := skillsPartial{
		partial: partial{
			points: WeightSkills * frac,
			detail: fmt.Sprintf("%d of %d required skills matched", len(matched), len(required)),
		},
		matched: matched,
		missing: missing,
	}
	if frac >= 0.5 {
		out.strength = fmt.Sprintf("Matches %d of %d required skills", len(matched), len(required))
	}
	if len(missing) > 0 {
		out.concern = "Missing required skills: " + strings.Join(firstN(missing, maxHighlights), ", ")
	}
	return out
}

// skillMatches is a loose, case-insensitive containment check in either
// direction: "react" matches "reactjs" and "reaction" alike.
func skillMatches(required string, have []string) bool {
	for _, h := range have {
		if strings.Contains(h, required) || strings.Contains(required, h) {
			return true
		}
	}
	return false
}

func normalizeSkills(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func scoreExperience(candidateYears, minYears float64) partial {
	if candidateYears < 0 || math.IsNaN(candidateYears) {
		candidateYears = 0
	}
	have := formatYears(candidateYears)

	if minYears <= 0 || math.IsNaN(minYears) {
		p := partial{points: WeightExperience, detail: "no minimum experience required"}
		if candidateYears > 0 {
			p.strength = fmt.Sprintf("%s years of experience", have)
		}
		return p
	}

	need := formatYears(minYears)
	if candidateYears >= minYears {
		return partial{
			points:   WeightExperience,
			detail:   fmt.Sprintf("%s years meets the %s-year minimum", have, need),
			strength: fmt.Sprintf("%s years of experience meets the %s-year minimum", have, need),
		}
	}

	return partial{
		points:  WeightExperience * (candidateYears / minYears),
		detail:  fmt.Sprintf("%s of %s required years", have, need),
		concern: fmt.Sprintf("%s years of experience is below the %s-year minimum", have, need),
	}
}

func scoreEducation(candidate, required EducationLevel) partial {
	// candidates without education on record compare as bachelor
	c, ok := educationRank[candidate]
	if !ok {
		candidate = EducationBachelor
		c = educationRank[EducationBachelor]
	}

	r, ok := educationRank[required]
	if !ok {
		return partial{points: WeightEducation, detail: "no education requirement"}
	}

	if c >= r {
		return partial{
			points:   WeightEducation,
			detail:   fmt.Sprintf("%s meets %s requirement", candidate, required),
			strength: fmt.Sprintf("Education (%s) meets the %s requirement", candidate, required),
		}
	}
	return partial{
		points:  WeightEducation / 2.0,
		detail:  fmt.Sprintf("%s is below %s requirement", candidate, required),
		concern: fmt.Sprintf("Education (%s) is below the %s requirement", candidate, required),
	}
}

func scoreLocation(lt LocationType) partial {
	if lt == LocationRemote {
		return partial{
			points:   WeightLocation,
			detail:   "remote",
			strength: "Fully remote opportunity",
		}
	}
	if lt == "" {
		lt = LocationOnsite
	}
	return partial{
		points:  WeightLocation * onsiteLocationRatio,
		detail:  string(lt),
		concern: fmt.Sprintf("Requires %s presence", lt),
	}
}

func formatYears(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstN(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// ClampScore bounds a score to the [0,100] range used by every factor.
func ClampScore(v int) int {
	return clampInt(v, 0, 100)
}
