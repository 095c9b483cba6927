package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestMiddleware() *ViewMiddleware {
	return NewViewMiddleware([]byte("0123456789abcdef0123456789abcdef"), "compass_view", time.Hour, false)
}

// echoView writes the view id the handler sees.
var echoView = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(MustCurrentView(r)))
})

func TestSetViewIssuesCookie(t *testing.T) {
	mw := newTestMiddleware()

	rec := httptest.NewRecorder()
	mw.SetView(echoView).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	viewID := rec.Body.String()
	if _, err := uuid.Parse(viewID); err != nil {
		t.Fatalf("view id %q is not a uuid", viewID)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "compass_view" {
		t.Fatalf("cookies = %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("view cookie should be HttpOnly")
	}
}

func TestSetViewReusesCookie(t *testing.T) {
	mw := newTestMiddleware()

	first := httptest.NewRecorder()
	mw.SetView(echoView).ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := first.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/job-analysis", nil)
	req.AddCookie(cookie)
	second := httptest.NewRecorder()
	mw.SetView(echoView).ServeHTTP(second, req)

	if second.Body.String() != first.Body.String() {
		t.Errorf("view id changed: %q -> %q", first.Body.String(), second.Body.String())
	}
}

func TestSetViewReplacesTamperedCookie(t *testing.T) {
	mw := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "compass_view", Value: "forged"})
	rec := httptest.NewRecorder()
	mw.SetView(echoView).ServeHTTP(rec, req)

	if _, err := uuid.Parse(rec.Body.String()); err != nil {
		t.Errorf("tampered cookie should yield a fresh view id, got %q", rec.Body.String())
	}

	other := NewViewMiddleware([]byte("ffffffffffffffffffffffffffffffff"), "compass_view", time.Hour, false)
	foreign := httptest.NewRecorder()
	other.SetView(echoView).ServeHTTP(foreign, httptest.NewRequest(http.MethodGet, "/", nil))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(foreign.Result().Cookies()[0])
	rec = httptest.NewRecorder()
	mw.SetView(echoView).ServeHTTP(rec, req)

	if rec.Body.String() == foreign.Body.String() {
		t.Error("cookie signed with another key was accepted")
	}
}

func TestCurrentViewWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if CurrentView(req) != "" {
		t.Error("CurrentView should be empty without SetView")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustCurrentView should panic without SetView")
		}
	}()
	MustCurrentView(req)
}

func TestPlaintextHTTPPassesThrough(t *testing.T) {
	called := false
	h := PlaintextHTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/job-analysis", nil))

	if !called {
		t.Error("PlaintextHTTP did not call the next handler")
	}
}
