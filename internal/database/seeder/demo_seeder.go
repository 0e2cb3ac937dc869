package seeder

import (
	"context"
	"fmt"
	"time"

	"hirelane/internal/database"
	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"
	"hirelane/internal/repository"
	ucauth "hirelane/internal/usecase/auth"

	"github.com/google/uuid"
)

const demoEmployerEmail = "talent@demo.hirelane.local"

// demoNamespace keeps demo ids stable so reseeding is idempotent.
var demoNamespace = uuid.MustParse("3f0e1c52-8a55-4b8e-9d7a-6f1b2c4d5e60")

// DemoSeeder creates one employer and a handful of open jobs and gigs.
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo" }

func (DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "opportunities", "id", "kind", "employer_id", "required_skills", "status"); err != nil {
		return err
	}

	employerID, err := ensureDemoEmployer(ctx, db)
	if err != nil {
		return err
	}

	repo := repository.NewPostgresOpportunityRepository(db)
	now := time.Now().UTC()

	items := []struct {
		Kind         opportunity.Kind
		Title        string
		Description  string
		Requirements matching.OpportunityRequirements
	}{
		{
			Kind:        opportunity.KindJob,
			Title:       "Backend Engineer (Go)",
			Description: "Build Go services, REST APIs and PostgreSQL-backed systems.",
			Requirements: matching.OpportunityRequirements{
				RequiredSkills:     []string{"go", "postgresql", "docker"},
				MinExperienceYears: 3,
				RequiredEducation:  matching.EducationBachelor,
				LocationType:       matching.LocationHybrid,
				Compensation:       matching.Compensation{Min: 90000, Max: 130000, Currency: "USD"},
			},
		},
		{
			Kind:        opportunity.KindJob,
			Title:       "Data Engineer",
			Description: "Own batch pipelines and the analytics warehouse.",
			Requirements: matching.OpportunityRequirements{
				RequiredSkills:     []string{"python", "sql", "airflow", "aws"},
				MinExperienceYears: 2,
				RequiredEducation:  matching.EducationBachelor,
				LocationType:       matching.LocationRemote,
			},
		},
		{
			Kind:        opportunity.KindJob,
			Title:       "Engineering Manager",
			Description: "Lead a team of six across platform and payments.",
			Requirements: matching.OpportunityRequirements{
				RequiredSkills:     []string{"leadership", "go", "kubernetes"},
				MinExperienceYears: 8,
				RequiredEducation:  matching.EducationMaster,
				LocationType:       matching.LocationOnsite,
			},
		},
		{
			Kind:        opportunity.KindGig,
			Title:       "Landing page in React",
			Description: "Two week contract to ship a marketing site.",
			Requirements: matching.OpportunityRequirements{
				RequiredSkills: []string{"react", "typescript", "css"},
				LocationType:   matching.LocationRemote,
				Compensation:   matching.Compensation{Min: 1500, Max: 3000, Currency: "USD"},
			},
		},
		{
			Kind:        opportunity.KindGig,
			Title:       "Postgres performance review",
			Description: "Audit slow queries and indexes on a 200 GB database.",
			Requirements: matching.OpportunityRequirements{
				RequiredSkills:     []string{"postgresql", "sql"},
				MinExperienceYears: 5,
				LocationType:       matching.LocationRemote,
			},
		},
	}

	for _, it := range items {
		o := opportunity.Opportunity{
			ID:           uuid.NewSHA1(demoNamespace, []byte(string(it.Kind)+":"+it.Title)),
			Kind:         it.Kind,
			EmployerID:   employerID,
			Title:        it.Title,
			Description:  it.Description,
			Status:       opportunity.StatusOpen,
			Requirements: it.Requirements,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.Create(ctx, o); err != nil {
			return fmt.Errorf("seed opportunity %q: %w", it.Title, err)
		}
	}
	return nil
}

func ensureDemoEmployer(ctx context.Context, db database.DB) (uuid.UUID, error) {
	hash, err := ucauth.HashPassword(uuid.NewString())
	if err != nil {
		return uuid.Nil, err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, role, full_name, company_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.NewSHA1(demoNamespace, []byte(demoEmployerEmail)), demoEmployerEmail, hash,
		string(account.RoleEmployer), "Demo Recruiter", "Hirelane Demo Co",
	)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	if err := db.QueryRow(ctx, `SELECT id FROM accounts WHERE email = $1`, demoEmployerEmail).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
