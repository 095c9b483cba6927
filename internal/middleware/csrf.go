package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// PlaintextHTTP marks requests that arrived without TLS so the CSRF origin check
// expects http:// origins. Mount it in front of csrf.Protect only when no TLS proxy is in front.
func PlaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}
