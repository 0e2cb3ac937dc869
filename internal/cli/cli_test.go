package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"hirelane/internal/domain/matching"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestScoreCommand_PrintsDeterministicResult(t *testing.T) {
	dir := t.TempDir()
	cand := writeFile(t, dir, "cand.json", `{"skills":["python","sql"],"experience_years":5,"education_level":"master"}`)
	req := writeFile(t, dir, "req.json", `{"required_skills":["python","aws"],"min_experience_years":3,"required_education":"bachelor","location_type":"remote"}`)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"score", cand, req})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var res matching.Result
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if res.OverallScore != 80 || res.Tier != matching.TierExcellentFit {
		t.Fatalf("unexpected result: %d %s", res.OverallScore, res.Tier)
	}
}

func TestScoreCommand_RejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"skills":`)

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"score", bad, bad})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected decode error")
	}

	rootCmd.SetArgs([]string{"score", "-", "-"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected stdin error")
	}
}

func TestResumeCheckCommand(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "resume.json", `{
		"personal_info": {"full_name": "Ana Diaz", "email": "ana@example.com"},
		"summary": "Backend engineer working with Go and PostgreSQL.",
		"skills": {"technical": ["go", "docker"]}
	}`)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"resume-check", p})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got struct {
		Completeness struct {
			Score   int      `json:"score"`
			Missing []string `json:"missing"`
		} `json:"completeness"`
		Keywords struct {
			Found []string `json:"found"`
		} `json:"keywords"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Completeness.Score <= 0 || got.Completeness.Score >= 100 {
		t.Fatalf("expected partial completeness, got %d", got.Completeness.Score)
	}
	if len(got.Completeness.Missing) == 0 {
		t.Fatalf("expected missing sections")
	}
	if len(got.Keywords.Found) == 0 {
		t.Fatalf("expected keywords, got none")
	}
}
