package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/careercompass/compass-web/internal/models"
)

const (
	// AnalyzePath is the fixed job analysis endpoint on the analysis service.
	AnalyzePath = "/api/analyze-job-application"
	// QuestionsPath generates interview questions from the same request body.
	QuestionsPath = "/api/generate-interview-questions"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
	userAgent        = "compass-web/1.0"
)

// Analyzer is what the analysis flow needs from the remote service.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
	InterviewQuestions(ctx context.Context, req models.AnalysisRequest) ([]models.InterviewQuestion, error)
}

// AnalysisClient talks to the remote analysis service over HTTP.
// It does not retry; the caller's context bounds every call.
type AnalysisClient struct {
	BaseURL string
	Client  *http.Client
}

// NewAnalysisClient creates a client for the service at baseURL.
// The http.Client has no timeout of its own; the flow sets a deadline on the context.
func NewAnalysisClient(baseURL string) *AnalysisClient {
	return &AnalysisClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
	}
}

// Analyze scores a resume against an optional job description.
func (ac *AnalysisClient) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	body, err := ac.post(ctx, AnalyzePath, req)
	if err != nil {
		return nil, err
	}

	result, err := models.DecodeAnalysisResult(body)
	if err != nil {
		return nil, &models.RequestError{Kind: models.KindMalformed, StatusCode: http.StatusOK, Err: err}
	}

	if rejected, msg := result.Rejected(); rejected {
		if msg == "" {
			msg = "service reported success=false"
		}
		return nil, &models.RequestError{Kind: models.KindRejected, StatusCode: http.StatusOK, Err: errors.New(msg)}
	}

	return result, nil
}

type questionsResponse struct {
	Success   *bool                      `json:"success"`
	Message   string                     `json:"message"`
	Questions []models.InterviewQuestion `json:"questions"`
}

// InterviewQuestions asks the service for interview questions tailored to the resume and job.
func (ac *AnalysisClient) InterviewQuestions(ctx context.Context, req models.AnalysisRequest) ([]models.InterviewQuestion, error) {
	body, err := ac.post(ctx, QuestionsPath, req)
	if err != nil {
		return nil, err
	}

	var resp questionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.RequestError{Kind: models.KindMalformed, StatusCode: http.StatusOK, Err: fmt.Errorf("decode questions: %w", err)}
	}
	if resp.Success != nil && !*resp.Success {
		return nil, &models.RequestError{Kind: models.KindRejected, StatusCode: http.StatusOK, Err: errors.New(resp.Message)}
	}

	questions := make([]models.InterviewQuestion, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		if text := strings.TrimSpace(q.Question); text != "" {
			questions = append(questions, models.InterviewQuestion{Question: text})
		}
	}
	return questions, nil
}

// post sends one JSON request and returns the body of a 2xx response.
func (ac *AnalysisClient) post(ctx context.Context, path string, payload models.AnalysisRequest) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ac.BaseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := ac.Client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Analysis service %s returned status %d in %s: %s", path, resp.StatusCode, time.Since(start), excerpt(body))
		return nil, &models.RequestError{
			Kind:       models.KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return body, nil
}

// classifyTransportError decides whether a failed call timed out, was canceled or never connected.
func classifyTransportError(ctx context.Context, err error) error {
	kind := models.KindUnreachable
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		kind = models.KindTimeout
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		kind = models.KindCanceled
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = models.KindTimeout
		}
	}
	return &models.RequestError{Kind: kind, Err: err}
}

func excerpt(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
