package dto

import (
	"time"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/resume"

	"github.com/google/uuid"
)

type AccountResponse struct {
	ID                 uuid.UUID      `json:"id"`
	Email              string         `json:"email"`
	Role               string         `json:"role"`
	FullName           string         `json:"full_name"`
	Skills             []string       `json:"skills,omitempty"`
	ExperienceYears    float64        `json:"experience_years,omitempty"`
	EducationLevel     string         `json:"education_level,omitempty"`
	LocationPreference string         `json:"location_preference,omitempty"`
	Resume             *resume.Resume `json:"resume,omitempty"`
	ResumeCompleteness *int           `json:"resume_completeness,omitempty"`
	CompanyName        string         `json:"company_name,omitempty"`
	HiresCount         int            `json:"hires_count,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

func NewAccountResponse(a account.Account) AccountResponse {
	out := AccountResponse{
		ID:                 a.ID,
		Email:              a.Email,
		Role:               string(a.Role),
		FullName:           a.FullName,
		Skills:             a.Skills,
		ExperienceYears:    a.ExperienceYears,
		EducationLevel:     string(a.EducationLevel),
		LocationPreference: a.LocationPreference,
		Resume:             a.Resume,
		CompanyName:        a.CompanyName,
		HiresCount:         a.HiresCount,
		CreatedAt:          a.CreatedAt,
	}
	if a.Resume != nil {
		score := resume.Completeness(*a.Resume)
		out.ResumeCompleteness = &score
	}
	return out
}

type UpdateProfileRequest struct {
	FullName           *string        `json:"full_name"`
	Skills             []string       `json:"skills"`
	ExperienceYears    *float64       `json:"experience_years"`
	EducationLevel     *string        `json:"education_level"`
	LocationPreference *string        `json:"location_preference"`
	CompanyName        *string        `json:"company_name"`
	Resume             *resume.Resume `json:"resume"`
}
