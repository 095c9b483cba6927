package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/careercompass/compass-web/internal/views"
)

// StaticController handles static pages like home, about, etc.
type StaticController struct {
	templates StaticTemplates
}

// StaticTemplates holds templates for static pages.
type StaticTemplates struct {
	Home     *views.Template
	About    *views.Template
	NotFound *views.Template
}

// NewStaticController creates a new StaticController.
func NewStaticController(templates StaticTemplates) *StaticController {
	return &StaticController{
		templates: templates,
	}
}

// HomeData holds data for the home page template.
type HomeData struct {
	Features []Feature
	Steps    []Feature
}

// Feature is a titled blurb on a marketing page.
type Feature struct {
	Title       string
	Description string
}

// AboutData holds data for the about page template.
type AboutData struct {
	Story  []string
	Values []Feature
}

var homeFeatures = []Feature{
	{
		Title:       "Resume Analysis",
		Description: "Get detailed feedback on your resume with AI-powered suggestions for improvement.",
	},
	{
		Title:       "Job Matching",
		Description: "See how well your resume matches a job description and where the gaps are.",
	},
	{
		Title:       "Interview Preparation",
		Description: "Practice with interview questions tailored to your resume and the role you want.",
	},
}

var homeSteps = []Feature{
	{
		Title:       "Paste Your Resume",
		Description: "Paste your resume text or upload a PDF, DOCX or text file.",
	},
	{
		Title:       "Add a Job Description",
		Description: "Optionally include the posting you are applying for to get a match score.",
	},
	{
		Title:       "Get Insights",
		Description: "Receive a match score and actionable feedback in seconds.",
	},
}

var aboutStory = []string{
	"CareerCompassAI was founded by a team of professionals who experienced firsthand the challenges of navigating the modern job market.",
	"Our founding team, with backgrounds in AI, HR, and career coaching, came together to provide personalized, data-driven career guidance that empowers job seekers to make informed decisions.",
	"Today, CareerCompassAI helps professionals across many industries navigate their career journeys with confidence and clarity.",
}

var aboutValues = []Feature{
	{
		Title:       "Our Mission",
		Description: "Make expert career guidance available to everyone, whatever their background.",
	},
	{
		Title:       "Data-Driven",
		Description: "Recommendations grounded in how real job descriptions are written and screened.",
	},
	{
		Title:       "Privacy First",
		Description: "Your resume is used to answer your request and is never sold or shared.",
	},
}

// GetHome renders the home page.
func (c *StaticController) GetHome(w http.ResponseWriter, r *http.Request) {
	data := &views.TemplateData{
		Title:       "CareerCompassAI - AI-Powered Career Guidance",
		Description: "Personalized insights on your resume, job applications, and interview preparation.",
		Data: HomeData{
			Features: homeFeatures,
			Steps:    homeSteps,
		},
	}

	c.templates.Home.ExecuteHTTP(w, r, data)
}

// GetAbout renders the about page.
func (c *StaticController) GetAbout(w http.ResponseWriter, r *http.Request) {
	data := &views.TemplateData{
		Title: "About - CareerCompassAI",
		Data: AboutData{
			Story:  aboutStory,
			Values: aboutValues,
		},
	}

	c.templates.About.ExecuteHTTP(w, r, data)
}

// NotFound renders the 404 page.
func (c *StaticController) NotFound(w http.ResponseWriter, r *http.Request) {
	data := &views.TemplateData{
		Title: "Page Not Found - CareerCompassAI",
	}
	c.templates.NotFound.ExecuteHTTPWithStatus(w, r, http.StatusNotFound, data)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheck returns a simple health status for monitoring.
// When db is non-nil it is pinged and a failure answers 503.
func HealthCheck(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.Health(r.Context()); err != nil {
				log.Printf("Health check failed: %v", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
