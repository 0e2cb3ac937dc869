package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hirelane/internal/app"
	"hirelane/internal/config"
	"hirelane/internal/database"
	"hirelane/internal/database/migration"
	dbpostgres "hirelane/internal/database/postgres"
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/domain/application"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"
	"hirelane/internal/metrics"
	"hirelane/internal/pkg/jwt"
	"hirelane/internal/repository"
	"hirelane/internal/usecase"
	"hirelane/internal/ws"
	"hirelane/migrations"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	Account struct {
		ID uuid.UUID `json:"id"`
	} `json:"account"`
	AccessToken string `json:"access_token"`
}

type applicationData struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	Version       int64     `json:"version"`
	StatusHistory []struct {
		Status string `json:"status"`
	} `json:"status_history"`
	MatchResult struct {
		OverallScore int `json:"overall_score"`
	} `json:"match_result"`
}

func TestIntegration_ApplicationLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	if _, err := (migration.Runner{FS: migrations.FS}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	c := newTestContainer(db)
	f := app.New(c).Fiber

	suffix := uuid.NewString()[:8]
	candidate := register(t, f, fmt.Sprintf(`{"email":"cand-%s@it.local","password":"candidate-pw","full_name":"Cand"}`, suffix))
	employer := register(t, f, fmt.Sprintf(`{"email":"emp-%s@it.local","password":"employer-pw","role":"employer","company_name":"IT Co"}`, suffix))
	defer cleanup(t, db, candidate.Account.ID, employer.Account.ID)

	call(t, f, "PUT", "/api/v1/me/profile", candidate.AccessToken,
		`{"skills":["python","sql"],"experience_years":5,"education_level":"master"}`, fiber.StatusOK, nil)

	opps := repository.NewPostgresOpportunityRepository(db)
	jobID := uuid.New()
	now := time.Now().UTC()
	err := opps.Create(ctx, opportunity.Opportunity{
		ID: jobID, Kind: opportunity.KindJob, EmployerID: employer.Account.ID,
		Title: "Data Engineer " + suffix, Status: opportunity.StatusOpen,
		Requirements: matching.OpportunityRequirements{
			RequiredSkills:     []string{"python", "aws"},
			MinExperienceYears: 3,
			RequiredEducation:  matching.EducationBachelor,
			LocationType:       matching.LocationRemote,
		},
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create opportunity: %v", err)
	}

	var preview struct {
		Source string          `json:"source"`
		Match  matching.Result `json:"match"`
	}
	call(t, f, "GET", "/api/v1/opportunities/job/"+jobID.String()+"/match", candidate.AccessToken, "", fiber.StatusOK, &preview)
	if preview.Source != "deterministic" || preview.Match.OverallScore != 80 {
		t.Fatalf("unexpected preview: %s %d", preview.Source, preview.Match.OverallScore)
	}

	var submitted applicationData
	applyBody := fmt.Sprintf(`{"job_id":"%s","cover_letter":"hello"}`, jobID)
	call(t, f, "POST", "/api/v1/applications", candidate.AccessToken, applyBody, fiber.StatusCreated, &submitted)
	if submitted.Status != "submitted" || submitted.MatchResult.OverallScore != 80 {
		t.Fatalf("unexpected submission: %+v", submitted)
	}
	call(t, f, "POST", "/api/v1/applications", candidate.AccessToken, applyBody, fiber.StatusConflict, nil)

	appPath := "/api/v1/applications/" + submitted.ID.String()
	call(t, f, "POST", appPath+"/transition", candidate.AccessToken, `{"status":"under_review"}`, fiber.StatusForbidden, nil)
	call(t, f, "POST", appPath+"/transition", employer.AccessToken, `{"status":"offered"}`, fiber.StatusConflict, nil)

	for _, body := range []string{
		`{"status":"under_review"}`,
		`{"status":"shortlisted","note":"strong sql"}`,
		fmt.Sprintf(`{"status":"interview","interview":{"scheduled_at":"%s","meeting_url":"https://meet.example/x"}}`, now.Add(48*time.Hour).Format(time.RFC3339)),
		fmt.Sprintf(`{"status":"offered","offer":{"salary":120000,"currency":"USD","expires_at":"%s"}}`, now.Add(7*24*time.Hour).Format(time.RFC3339)),
	} {
		call(t, f, "POST", appPath+"/transition", employer.AccessToken, body, fiber.StatusOK, nil)
	}

	var accepted applicationData
	call(t, f, "POST", appPath+"/accept", candidate.AccessToken, "", fiber.StatusOK, &accepted)
	if accepted.Status != "accepted" || len(accepted.StatusHistory) != 6 || accepted.Version != 6 {
		t.Fatalf("unexpected accepted application: %+v", accepted)
	}
	call(t, f, "POST", appPath+"/withdraw", candidate.AccessToken, "", fiber.StatusConflict, nil)

	got, err := opps.GetByID(ctx, opportunity.KindJob, jobID)
	if err != nil {
		t.Fatalf("reload opportunity: %v", err)
	}
	if got.ApplicationsCount != 1 || got.ShortlistedCount != 1 || got.HiresCount != 1 {
		t.Fatalf("unexpected counters: %d %d %d", got.ApplicationsCount, got.ShortlistedCount, got.HiresCount)
	}

	var me struct {
		HiresCount int `json:"hires_count"`
	}
	call(t, f, "GET", "/api/v1/me", employer.AccessToken, "", fiber.StatusOK, &me)
	if me.HiresCount != 1 {
		t.Fatalf("expected employer hires 1, got %d", me.HiresCount)
	}

	// reapplying is allowed once the previous application is final
	call(t, f, "POST", "/api/v1/applications", candidate.AccessToken, applyBody, fiber.StatusCreated, nil)
}

func TestIntegration_StaleUpdateIsRejected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()
	if _, err := (migration.Runner{FS: migrations.FS}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	c := newTestContainer(db)
	f := app.New(c).Fiber
	suffix := uuid.NewString()[:8]
	candidate := register(t, f, fmt.Sprintf(`{"email":"cand-%s@it.local","password":"candidate-pw"}`, suffix))
	employer := register(t, f, fmt.Sprintf(`{"email":"emp-%s@it.local","password":"employer-pw","role":"employer"}`, suffix))
	defer cleanup(t, db, candidate.Account.ID, employer.Account.ID)

	gigID := uuid.New()
	now := time.Now().UTC()
	if err := repository.NewPostgresOpportunityRepository(db).Create(ctx, opportunity.Opportunity{
		ID: gigID, Kind: opportunity.KindGig, EmployerID: employer.Account.ID, Title: "Gig " + suffix,
		Status: opportunity.StatusOpen, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create gig: %v", err)
	}

	var submitted applicationData
	call(t, f, "POST", "/api/v1/applications", candidate.AccessToken,
		fmt.Sprintf(`{"gig_id":"%s"}`, gigID), fiber.StatusCreated, &submitted)

	repo := repository.NewPostgresApplicationRepository(db)
	prev, err := repo.GetByID(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	reviewer := application.Actor{ID: employer.Account.ID, Role: "employer"}

	first, _, err := application.Transition(prev, application.TransitionRequest{To: application.StatusUnderReview, Actor: reviewer, Now: now})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	second, _, err := application.Transition(prev, application.TransitionRequest{To: application.StatusRejected, Actor: reviewer, Now: now})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}

	if _, err := repo.Update(ctx, prev, first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := repo.Update(ctx, prev, second); !errors.Is(err, application.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored, err := repo.GetByID(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != application.StatusUnderReview || len(stored.History) != 2 || stored.Version != 2 {
		t.Fatalf("unexpected stored state: %s %d %d", stored.Status, len(stored.History), stored.Version)
	}
}

func newTestContainer(db database.DB) *app.Container {
	jwtSvc := jwt.NewHMACService("it-access-secret", "it-refresh-secret", 15*time.Minute, time.Hour)
	accounts := repository.NewPostgresAccountRepository(db)
	opps := repository.NewPostgresOpportunityRepository(db)
	m := metrics.New()
	pipeline := usecase.NewMatchPipeline(usecase.MatchPipelineOptions{Metrics: m})
	hub := ws.NewHub(nil)

	return &app.Container{
		Config:          config.Config{App: config.AppConfig{AppName: "hirelane-it"}},
		DB:              db,
		Metrics:         m,
		JWT:             jwtSvc,
		Hub:             hub,
		AuthMiddleware:  middleware.NewAuthMiddleware(jwtSvc),
		Auth:            usecase.NewAuthUsecase(accounts, jwtSvc),
		Account:         usecase.NewAccountUsecase(accounts),
		Matching:        usecase.NewMatchingUsecase(accounts, opps, pipeline),
		Recommendations: usecase.NewRecommendationUsecase(accounts, opps),
		Applications: usecase.NewApplicationUsecase(usecase.ApplicationDeps{
			Applications:  repository.NewPostgresApplicationRepository(db),
			Opportunities: opps,
			Accounts:      accounts,
			Pipeline:      pipeline,
			Notifier:      ws.NewNotifier(hub),
			Metrics:       m,
		}),
		Resume: usecase.NewResumeUsecase(nil),
		Status: usecase.NewStatusUsecase(repository.NewPostgresStatusRepository(db), db, nil, false),
	}
}

func register(t *testing.T, f *fiber.App, body string) authData {
	t.Helper()
	var out authData
	call(t, f, "POST", "/api/v1/auth/register", "", body, fiber.StatusCreated, &out)
	if out.AccessToken == "" || out.Account.ID == uuid.Nil {
		t.Fatalf("register: empty token or id")
	}
	return out
}

func call(t *testing.T, f *fiber.App, method, path, token, body string, wantStatus int, out any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantStatus, resp.StatusCode, raw)
	}
	if out == nil {
		return
	}
	var env semanticResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("%s %s: decode data: %v", method, path, err)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("HIRELANE_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("HIRELANE_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("HIRELANE_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("HIRELANE_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("HIRELANE_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("HIRELANE_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set HIRELANE_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func cleanup(t *testing.T, db database.DB, accountIDs ...uuid.UUID) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ids := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		ids = append(ids, id.String())
	}
	stmts := []string{
		`DELETE FROM application_status_history WHERE application_id IN (SELECT id FROM applications WHERE applicant_id = ANY($1::uuid[]) OR employer_id = ANY($1::uuid[]))`,
		`DELETE FROM applications WHERE applicant_id = ANY($1::uuid[]) OR employer_id = ANY($1::uuid[])`,
		`DELETE FROM opportunities WHERE employer_id = ANY($1::uuid[])`,
		`DELETE FROM accounts WHERE id = ANY($1::uuid[])`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(ctx, q, ids); err != nil {
			t.Logf("cleanup: %v", err)
		}
	}
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
