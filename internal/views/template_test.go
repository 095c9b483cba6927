package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestHelpers(t *testing.T) {
	if got := widthPercent(72.5); got != "width: 72.5%" {
		t.Errorf("widthPercent(72.5) = %q", got)
	}
	if got := truncate("résumé writing tips", 9); got != "résumé..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := defaultValue("", "fallback"); got != "fallback" {
		t.Errorf("defaultValue = %v", got)
	}
}

func TestParseFS(t *testing.T) {
	saved := TemplateFS
	defer func() { TemplateFS = saved }()

	TemplateFS = nil
	if _, err := ParseFS("pages/home.gohtml"); err == nil {
		t.Error("ParseFS without TemplateFS should fail")
	}

	TemplateFS = fstest.MapFS{
		"layouts/base.gohtml": {Data: []byte(`{{define "base"}}[{{template "nav" .}}|{{template "content" .}}]{{end}}`)},
		"partials/nav.gohtml": {Data: []byte(`{{define "nav"}}{{.Title}}{{end}}`)},
		"pages/hello.gohtml":  {Data: []byte(`{{define "content"}}{{.Data}}{{end}}`)},
		"pages/broken.gohtml": {Data: []byte(`{{define "content"}}{{.Data}`)},
	}

	tpl, err := ParseFS("pages/hello.gohtml")
	if err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	if err := tpl.Execute(&out, &TemplateData{Title: "T", Data: "hi"}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "[T|hi]" {
		t.Errorf("Execute = %q", out.String())
	}

	if _, err := ParseFS("pages/broken.gohtml"); err == nil {
		t.Error("broken template should fail to parse")
	}
	if _, err := ParseFS("pages/missing.gohtml"); err == nil {
		t.Error("missing template should fail")
	}
}


func TestExecuteHTTPWithStatusSetsRequestInfo(t *testing.T) {
	savedFS, savedDev := TemplateFS, Development
	defer func() { TemplateFS, Development = savedFS, savedDev }()

	TemplateFS = fstest.MapFS{
		"layouts/base.gohtml": {Data: []byte(`{{define "base"}}{{.CurrentPath}}{{if .IsDevelopment}} dev{{end}}{{end}}`)},
	}
	tpl, err := ParseFS()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		development bool
		want        string
	}{
		{name: "Development", development: true, want: "/about dev"},
		{name: "Production", development: false, want: "/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Development = tt.development
			rec := httptest.NewRecorder()
			tpl.ExecuteHTTPWithStatus(rec, httptest.NewRequest(http.MethodGet, "/about", nil), http.StatusTeapot, &TemplateData{})

			if rec.Code != http.StatusTeapot {
				t.Errorf("status = %d", rec.Code)
			}
			if rec.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}
