package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/careercompass/compass-web/internal/models"
)

// DefaultAnalysisTimeout bounds a single call to the analysis service.
const DefaultAnalysisTimeout = 60 * time.Second

// AnalysisFlow owns the job analysis form state for one view.
//
// It moves between two states: idle and loading. Submit is the only way in
// to loading, and every submit returns to idle whether it succeeded or not.
// A submit while loading is rejected with models.ErrSubmissionInFlight.
type AnalysisFlow struct {
	mu       sync.Mutex
	state    models.UIState
	analyzer Analyzer
	timeout  time.Duration
	now      func() time.Time
}

// NewAnalysisFlow creates an idle flow. A non-positive timeout uses DefaultAnalysisTimeout.
func NewAnalysisFlow(analyzer Analyzer, timeout time.Duration) *AnalysisFlow {
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	return &AnalysisFlow{
		analyzer: analyzer,
		timeout:  timeout,
		now:      time.Now,
	}
}

// restore replaces the state with one loaded from a store.
// A persisted loading flag belongs to a request that no longer exists here, so it is cleared.
func (f *AnalysisFlow) restore(state models.UIState) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = state.Clone()
	f.state.IsLoading = false
}

// refresh adopts a stored state that is newer than the local one.
// A loading flow keeps its state; finish will stamp it after the stored one.
func (f *AnalysisFlow) refresh(state models.UIState) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.IsLoading || !state.UpdatedAt.After(f.state.UpdatedAt) {
		return
	}
	f.state = state.Clone()
	f.state.IsLoading = false
}

func (f *AnalysisFlow) SetResumeText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.ResumeText = text
	f.state.UpdatedAt = f.now()
}

func (f *AnalysisFlow) SetJobDescription(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.JobDescription = text
	f.state.UpdatedAt = f.now()
}

// State returns a snapshot of the flow's state.
func (f *AnalysisFlow) State() models.UIState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state.Clone()
}

func (f *AnalysisFlow) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state.IsLoading
}

// begin validates, captures the request and flips to loading.
func (f *AnalysisFlow) begin(requireJob bool) (models.AnalysisRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req := models.AnalysisRequest{
		ResumeText:     f.state.ResumeText,
		JobDescription: f.state.JobDescription,
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	if requireJob && strings.TrimSpace(req.JobDescription) == "" {
		return req, &models.ValidationError{
			Field:   "job_description",
			Message: "A job description is required to generate interview questions",
		}
	}
	if f.state.IsLoading {
		return req, models.ErrSubmissionInFlight
	}

	f.state.IsLoading = true
	return req, nil
}

// finish returns to idle and applies update only when the call succeeded.
func (f *AnalysisFlow) finish(err error, update func(*models.UIState)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.IsLoading = false
	if err == nil {
		update(&f.state)
		f.state.UpdatedAt = f.now()
	}
}

// Submit sends the current resume text and job description to the analysis service.
//
// On success the result replaces any previous one. On failure the previous result is
// kept and a *models.RequestError is returned. Blank resume text returns a
// *models.ValidationError without contacting the service. ctx cancels the call.
func (f *AnalysisFlow) Submit(ctx context.Context) (*models.AnalysisResult, error) {
	req, err := f.begin(false)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := f.now()
	result, err := f.analyzer.Analyze(ctx, req)
	f.finish(err, func(s *models.UIState) {
		s.Result = result
	})
	if err != nil {
		log.Printf("Job analysis failed after %s: %v", f.now().Sub(start), err)
		return nil, err
	}

	log.Printf("Job analysis completed in %s (score present: %t, feedback from: %q)",
		f.now().Sub(start), result.HasScore(), result.FeedbackSource)
	return result, nil
}

// GenerateQuestions asks for interview questions for the current resume and job description.
// It shares the in-flight guard with Submit.
func (f *AnalysisFlow) GenerateQuestions(ctx context.Context) ([]models.InterviewQuestion, error) {
	req, err := f.begin(true)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	questions, err := f.analyzer.InterviewQuestions(ctx, req)
	f.finish(err, func(s *models.UIState) {
		s.Questions = questions
	})
	if err != nil {
		log.Printf("Interview question generation failed: %v", err)
		return nil, err
	}

	log.Printf("Generated %d interview questions", len(questions))
	return append([]models.InterviewQuestion(nil), questions...), nil
}
