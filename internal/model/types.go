package model

// UploadOutcome is the settled result of one file upload attempt.
// HTTPStatus is 0 when the request never reached the server.
type UploadOutcome struct {
	FileName   string `json:"file_name"`
	Succeeded  bool   `json:"succeeded"`
	HTTPStatus int    `json:"http_status"`
	Message    string `json:"message"`
}

// BatchReport summarises one batch of uploads. Lines and Outcomes follow
// submission order.
type BatchReport struct {
	SuccessCount int             `json:"success_count"`
	ErrorCount   int             `json:"error_count"`
	Lines        []string        `json:"lines"`
	Outcomes     []UploadOutcome `json:"outcomes"`
}

type Job struct {
	ID             int64  `json:"id"`
	Title          string `json:"jobTitle"`
	RawDescription string `json:"rawDescription,omitempty"`
	SummaryJSON    string `json:"structuredSummaryJson,omitempty"`
	Status         string `json:"status"`
}

type Candidate struct {
	ID               int64  `json:"id"`
	FileCandidateID  string `json:"candidateIdFromFile,omitempty"`
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	OriginalFilePath string `json:"originalFilePath,omitempty"`
	ExtractedCVJSON  string `json:"extractedCvJson,omitempty"`
	Status           string `json:"status"`
}

type Application struct {
	ID                 int64    `json:"id"`
	JobID              int64    `json:"jobId"`
	JobTitle           string   `json:"jobTitle,omitempty"`
	CandidateID        int64    `json:"candidateId"`
	CandidateName      string   `json:"candidateName,omitempty"`
	CandidateFileID    string   `json:"candidateFileId,omitempty"`
	MatchScore         *float64 `json:"matchScore,omitempty"`
	MatchJustification string   `json:"matchJustification,omitempty"`
	Status             string   `json:"status"`
}
