package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/careercompass/compass-web/internal/views"
	"github.com/careercompass/compass-web/templates"
)

func newStaticController(t *testing.T) *StaticController {
	t.Helper()
	views.TemplateFS = templates.FS

	return NewStaticController(StaticTemplates{
		Home:     views.MustParseFS("pages/home.gohtml"),
		About:    views.MustParseFS("pages/about.gohtml"),
		NotFound: views.MustParseFS("pages/not_found.gohtml"),
	})
}

func TestStaticPages(t *testing.T) {
	c := newStaticController(t)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		path       string
		wantStatus int
		wantText   string
	}{
		{name: "Home", handler: c.GetHome, path: "/", wantStatus: http.StatusOK, wantText: "Resume Analysis"},
		{name: "About", handler: c.GetAbout, path: "/about", wantStatus: http.StatusOK, wantText: "Our Mission"},
		{name: "Not found", handler: c.NotFound, path: "/nope", wantStatus: http.StatusNotFound, wantText: "/nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("body missing %q", tt.wantText)
			}
			if !strings.Contains(rec.Body.String(), `href="/job-analysis"`) {
				t.Error("navigation missing")
			}
		})
	}
}

type fakeDatabase struct{ err error }

func (f fakeDatabase) Health(ctx context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		db       HealthChecker
		wantCode int
		wantBody string
	}{
		{name: "Memory store", db: nil, wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "Database reachable", db: fakeDatabase{}, wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "Database down", db: fakeDatabase{err: errors.New("connection refused")}, wantCode: http.StatusServiceUnavailable, wantBody: `{"status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthCheck(tt.db)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
				t.Errorf("HealthCheck = %d %s, want %d %s", rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestAuthStubs(t *testing.T) {
	views.TemplateFS = templates.FS
	tpl := views.MustParseFS("pages/auth.gohtml")
	c := NewAuthController(AuthTemplates{Login: tpl, Register: tpl})

	rec := httptest.NewRecorder()
	c.GetRegister(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="name"`) {
		t.Errorf("GetRegister = %d", rec.Code)
	}

	form := url.Values{"email": {"jane@example.com"}, "password": {"hunter22"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	c.PostLogin(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("PostLogin status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "not available yet") || !strings.Contains(body, "jane@example.com") {
		t.Error("PostLogin should keep the email and explain sign-in is unavailable")
	}
}
