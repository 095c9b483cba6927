package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"
)

// TemplateFS is the filesystem templates are parsed from. main sets it to templates.FS.
var TemplateFS fs.FS

// Development marks every rendered page as a development build. main sets it from config.
var Development bool

// Template wraps a parsed template with helper methods for rendering.
type Template struct {
	tmpl *template.Template
}

// TemplateData is the standard data structure passed to all templates.
type TemplateData struct {
	// Hidden CSRF input for forms
	CSRFField template.HTML

	// Flash messages
	Error   string
	Success string
	Warning string
	Info    string

	// Page-specific data
	Data interface{}

	Title       string
	Description string

	// Request info (used for active nav highlighting)
	CurrentPath string

	IsDevelopment bool
}

// NavItem is one link in the site header.
type NavItem struct {
	Name string
	Href string
}

// Navigation is the site header, in display order.
var Navigation = []NavItem{
	{Name: "Home", Href: "/"},
	{Name: "About", Href: "/about"},
	{Name: "Job Analysis", Href: "/job-analysis"},
}

// DefaultFuncMap returns the default template functions available in all templates.
func DefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,

		"formatDateTime": formatDateTime,
		"timeAgo":        timeAgo,

		"widthPercent": widthPercent,
		"inc":          func(i int) int { return i + 1 },

		"navigation": func() []NavItem { return Navigation },
		"year":       func() int { return time.Now().Year() },

		"default": defaultValue,
	}
}

// ParseFS parses the base layout, every partial, and the requested page templates.
//
// Usage:
//
//	tmpl, err := views.ParseFS("pages/home.gohtml")
//	// This will parse:
//	// - layouts/base.gohtml
//	// - partials/*.gohtml
//	// - pages/home.gohtml
func ParseFS(patterns ...string) (*Template, error) {
	if TemplateFS == nil {
		return nil, fmt.Errorf("views.TemplateFS is not set")
	}

	tmpl := template.New("").Funcs(DefaultFuncMap())

	baseContent, err := fs.ReadFile(TemplateFS, "layouts/base.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}

	tmpl, err = tmpl.Parse(string(baseContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	// Partials define their own names with {{define "name"}}
	partialMatches, err := fs.Glob(TemplateFS, "partials/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to glob partials: %w", err)
	}

	for _, match := range partialMatches {
		content, err := fs.ReadFile(TemplateFS, match)
		if err != nil {
			return nil, fmt.Errorf("failed to read partial %s: %w", match, err)
		}

		tmpl, err = tmpl.Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", match, err)
		}
	}

	// Pages define the "content" block rendered by the base layout
	for _, pattern := range patterns {
		content, err := fs.ReadFile(TemplateFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", pattern, err)
		}

		tmpl, err = tmpl.Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", pattern, err)
		}
	}

	return &Template{tmpl: tmpl}, nil
}

// MustParseFS is like ParseFS but panics on error.
func MustParseFS(patterns ...string) *Template {
	tmpl, err := ParseFS(patterns...)
	if err != nil {
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}
	return tmpl
}

// Execute renders the template to the given writer with the provided data.
func (t *Template) Execute(w io.Writer, data *TemplateData) error {
	return t.tmpl.ExecuteTemplate(w, "base", data)
}

// ExecuteHTTP renders the template as a 200 response.
func (t *Template) ExecuteHTTP(w http.ResponseWriter, r *http.Request, data *TemplateData) {
	t.ExecuteHTTPWithStatus(w, r, http.StatusOK, data)
}

// ExecuteHTTPWithStatus renders the template with a custom HTTP status code.
// Output is buffered so a template error never produces a half-written page.
func (t *Template) ExecuteHTTPWithStatus(w http.ResponseWriter, r *http.Request, status int, data *TemplateData) {
	if data != nil {
		data.CurrentPath = r.URL.Path
		data.IsDevelopment = Development
	}

	buf := &bytes.Buffer{}
	err := t.Execute(buf, data)
	if err != nil {
		log.Printf("Template execution error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Template function implementations

func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length || length < 4 {
		return s
	}
	return string(runes[:length-3]) + "..."
}

func formatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

func timeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return formatDateTime(t)
	}
}

// widthPercent builds a CSS width declaration for a bar fill.
func widthPercent(pct float64) template.CSS {
	return template.CSS("width: " + strconv.FormatFloat(pct, 'f', -1, 64) + "%")
}

func defaultValue(value, defaultVal interface{}) interface{} {
	if value == nil || value == "" || value == 0 {
		return defaultVal
	}
	return value
}
