package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// AnalysisRequest is the body sent to the analysis endpoint.
// A new one is built on every submit.
type AnalysisRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// Validate checks the only precondition the endpoint has: resume text must not be blank.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.ResumeText) == "" {
		return &ValidationError{Field: "resume_text", Message: "Please enter your resume text"}
	}
	return nil
}

// FeedbackField names the wire field the canonical feedback text was read from.
type FeedbackField string

const (
	FeedbackNone     FeedbackField = ""
	FeedbackAnalysis FeedbackField = "analysis"
	FeedbackFeedback FeedbackField = "feedback"
	FeedbackSummary  FeedbackField = "summary"
)

// feedbackFields is the lookup order for the feedback text.
var feedbackFields = []FeedbackField{FeedbackAnalysis, FeedbackFeedback, FeedbackSummary}

// AnalysisResult is what the analysis service returned.
// The service varies the name of its free text field, so decoding folds
// analysis/feedback/summary into Feedback and records the origin in FeedbackSource.
type AnalysisResult struct {
	MatchScore     *float64       `json:"match_score,omitempty"`
	Feedback       string         `json:"feedback,omitempty"`
	FeedbackSource FeedbackField  `json:"feedback_source,omitempty"`
	Raw            map[string]any `json:"raw,omitempty"`
}

// DecodeAnalysisResult parses a response body. Anything other than a JSON object is an error.
func DecodeAnalysisResult(body []byte) (*AnalysisResult, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode analysis result: body is null")
	}
	return NewAnalysisResult(raw), nil
}

// NewAnalysisResult builds a result from an already decoded JSON object.
func NewAnalysisResult(raw map[string]any) *AnalysisResult {
	result := &AnalysisResult{Raw: raw}

	if score, ok := raw["match_score"].(float64); ok && !math.IsNaN(score) {
		result.MatchScore = &score
	}

	for _, field := range feedbackFields {
		text, ok := raw[string(field)].(string)
		if !ok || text == "" {
			continue
		}
		result.Feedback = text
		result.FeedbackSource = field
		break
	}

	return result
}

// Rejected reports whether the service answered with an explicit success=false.
func (r *AnalysisResult) Rejected() (bool, string) {
	if r == nil || r.Raw == nil {
		return false, ""
	}
	success, ok := r.Raw["success"].(bool)
	if !ok || success {
		return false, ""
	}
	msg, _ := r.Raw["message"].(string)
	if msg == "" {
		msg, _ = r.Raw["error"].(string)
	}
	return true, msg
}

// HasScore reports whether a match score should be rendered.
func (r *AnalysisResult) HasScore() bool {
	return r != nil && r.MatchScore != nil
}

// ScoreLabel formats the score for display, e.g. "73" or "72.5". The value is not clamped.
func (r *AnalysisResult) ScoreLabel() string {
	if !r.HasScore() {
		return ""
	}
	return strconv.FormatFloat(*r.MatchScore, 'f', -1, 64)
}

// ScoreWidth is the score bar fill in percent, clamped to [0, 100].
func (r *AnalysisResult) ScoreWidth() float64 {
	if !r.HasScore() {
		return 0
	}
	return math.Max(0, math.Min(100, *r.MatchScore))
}

// HasFeedback reports whether the feedback section has anything to show.
func (r *AnalysisResult) HasFeedback() bool {
	return r != nil && r.Feedback != ""
}

// InterviewQuestion is one entry of the interview question list.
type InterviewQuestion struct {
	Question string `json:"question"`
}

// UIState is everything the job analysis page shows for one browser view.
type UIState struct {
	ResumeText     string              `json:"resume_text"`
	JobDescription string              `json:"job_description"`
	Result         *AnalysisResult     `json:"result,omitempty"`
	Questions      []InterviewQuestion `json:"questions,omitempty"`
	IsLoading      bool                `json:"is_loading"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Clone returns a copy that shares no slices with s.
// Result is treated as immutable once stored, so the pointer is shared.
func (s UIState) Clone() UIState {
	out := s
	if s.Questions != nil {
		out.Questions = append([]InterviewQuestion(nil), s.Questions...)
	}
	return out
}
