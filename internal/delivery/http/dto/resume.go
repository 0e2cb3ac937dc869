package dto

type KeywordsRequest struct {
	Text string `json:"text"`
}

type GenerateResumeRequest struct {
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	TargetRole  string   `json:"target_role"`
	Background  string   `json:"background"`
	Skills      []string `json:"skills"`
	Preferences string   `json:"preferences"`
}

type ImproveSectionRequest struct {
	Section string `json:"section"`
	Text    string `json:"text"`
}

type SuggestKeywordsRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}
