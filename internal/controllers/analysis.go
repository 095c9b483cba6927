package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/careercompass/compass-web/internal/middleware"
	"github.com/careercompass/compass-web/internal/models"
	"github.com/careercompass/compass-web/internal/services"
	"github.com/careercompass/compass-web/internal/views"
	"github.com/gorilla/csrf"
)

// FlowProvider hands out the analysis flow of a view and persists it.
type FlowProvider interface {
	Flow(ctx context.Context, viewID string) (*services.AnalysisFlow, error)
	Save(ctx context.Context, viewID string, flow *services.AnalysisFlow) error
}

// TextExtractor turns an uploaded resume into text.
type TextExtractor interface {
	ExtractText(filename, contentType string, data []byte) (string, error)
}

// AnalysisController serves the job analysis page.
type AnalysisController struct {
	flows          FlowProvider
	extractor      TextExtractor
	template       *views.Template
	maxUploadBytes int64
}

func NewAnalysisController(flows FlowProvider, extractor TextExtractor, template *views.Template, maxUploadBytes int64) *AnalysisController {
	return &AnalysisController{
		flows:          flows,
		extractor:      extractor,
		template:       template,
		maxUploadBytes: maxUploadBytes,
	}
}

// JobAnalysisData holds data for the job analysis template.
type JobAnalysisData struct {
	State       models.UIState
	MaxUploadMB int64
}

// GetJobAnalysis renders the form together with the view's current state.
func (c *AnalysisController) GetJobAnalysis(w http.ResponseWriter, r *http.Request) {
	viewID := middleware.MustCurrentView(r)

	flow, err := c.flows.Flow(r.Context(), viewID)
	if err != nil {
		log.Printf("Failed to load analysis view %s: %v", viewID, err)
		http.Error(w, "Failed to load job analysis", http.StatusInternalServerError)
		return
	}

	data := c.pageData(r, flow.State())
	if flow.IsLoading() {
		data.Info = "Your previous analysis is still running."
	}
	c.template.ExecuteHTTP(w, r, data)
}

// PostJobAnalysis stores the submitted text, runs one analysis and renders the outcome.
func (c *AnalysisController) PostJobAnalysis(w http.ResponseWriter, r *http.Request) {
	c.handleSubmit(w, r, "Analysis complete.", func(ctx context.Context, flow *services.AnalysisFlow) error {
		_, err := flow.Submit(ctx)
		return err
	})
}

// PostQuestions generates interview questions for the submitted resume and job description.
func (c *AnalysisController) PostQuestions(w http.ResponseWriter, r *http.Request) {
	c.handleSubmit(w, r, "Interview questions ready.", func(ctx context.Context, flow *services.AnalysisFlow) error {
		_, err := flow.GenerateQuestions(ctx)
		return err
	})
}

func (c *AnalysisController) handleSubmit(w http.ResponseWriter, r *http.Request, success string, run func(context.Context, *services.AnalysisFlow) error) {
	viewID := middleware.MustCurrentView(r)

	flow, err := c.flows.Flow(r.Context(), viewID)
	if err != nil {
		log.Printf("Failed to load analysis view %s: %v", viewID, err)
		http.Error(w, "Failed to load job analysis", http.StatusInternalServerError)
		return
	}

	if err := c.applyForm(w, r, flow); err != nil {
		c.renderError(w, r, flow, err)
		return
	}

	// The request context is the cancellation token: a closed tab aborts the call.
	err = run(r.Context(), flow)

	if saveErr := c.flows.Save(r.Context(), viewID, flow); saveErr != nil {
		log.Printf("Failed to save analysis view %s: %v", viewID, saveErr)
	}

	if err != nil {
		c.renderError(w, r, flow, err)
		return
	}

	data := c.pageData(r, flow.State())
	data.Success = success
	c.template.ExecuteHTTP(w, r, data)
}

// applyForm copies the form fields into the flow. An uploaded file replaces the typed resume.
func (c *AnalysisController) applyForm(w http.ResponseWriter, r *http.Request, flow *services.AnalysisFlow) error {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes+(1<<20))

	err := r.ParseMultipartForm(c.maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &models.ValidationError{Field: "resume_file", Message: "the uploaded file is too large"}
		}
		return &models.ValidationError{Message: "invalid form data"}
	}

	flow.SetResumeText(r.FormValue("resume_text"))
	flow.SetJobDescription(r.FormValue("job_description"))

	if r.MultipartForm == nil {
		return nil
	}
	file, header, err := r.FormFile("resume_file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return &models.ValidationError{Field: "resume_file", Message: "could not read the uploaded file"}
	}
	defer file.Close()

	if header.Size == 0 {
		return nil
	}
	if header.Size > c.maxUploadBytes {
		return &models.ValidationError{Field: "resume_file", Message: "the uploaded file is too large"}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return &models.ValidationError{Field: "resume_file", Message: "could not read the uploaded file"}
	}

	text, err := c.extractor.ExtractText(header.Filename, header.Header.Get("Content-Type"), content)
	if err != nil {
		return err
	}
	flow.SetResumeText(text)
	return nil
}

// renderError maps a flow error onto a status code and notification banner.
func (c *AnalysisController) renderError(w http.ResponseWriter, r *http.Request, flow *services.AnalysisFlow, err error) {
	data := c.pageData(r, flow.State())

	var (
		status int
		ve     *models.ValidationError
		re     *models.RequestError
	)
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
		data.Error = ve.Message
	case errors.Is(err, models.ErrSubmissionInFlight):
		status = http.StatusConflict
		data.Warning = "An analysis is already running for this page. Please wait for it to finish."
	case errors.As(err, &re):
		status = http.StatusBadGateway
		data.Error = re.UserMessage()
	default:
		log.Printf("Unexpected job analysis error: %v", err)
		status = http.StatusInternalServerError
		data.Error = "Something went wrong. Please try again."
	}

	c.template.ExecuteHTTPWithStatus(w, r, status, data)
}

func (c *AnalysisController) pageData(r *http.Request, state models.UIState) *views.TemplateData {
	return &views.TemplateData{
		Title:     "Job Analysis - CareerCompassAI",
		CSRFField: csrf.TemplateField(r),
		Data: JobAnalysisData{
			State:       state,
			MaxUploadMB: c.maxUploadBytes >> 20,
		},
	}
}

// AnalysisStatus is the JSON body of the status endpoint.
type AnalysisStatus struct {
	Loading   bool `json:"loading"`
	HasResult bool `json:"has_result"`
}

// GetStatus reports whether the view has an analysis in flight.
func (c *AnalysisController) GetStatus(w http.ResponseWriter, r *http.Request) {
	viewID := middleware.MustCurrentView(r)

	flow, err := c.flows.Flow(r.Context(), viewID)
	if err != nil {
		log.Printf("Failed to load analysis view %s: %v", viewID, err)
		http.Error(w, "Failed to load job analysis", http.StatusInternalServerError)
		return
	}

	state := flow.State()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnalysisStatus{
		Loading:   state.IsLoading,
		HasResult: state.Result != nil,
	})
}
