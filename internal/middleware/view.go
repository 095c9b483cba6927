package middleware

import (
	"log"
	"net/http"
	"time"

	localcontext "github.com/careercompass/compass-web/context"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

// ViewMiddleware gives every browser a stable, signed view id.
// The job analysis flow keys its state on it.
type ViewMiddleware struct {
	codec      *securecookie.SecureCookie
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewViewMiddleware derives the cookie hash key from secret. Values are signed, not encrypted:
// the cookie only carries a random id.
func NewViewMiddleware(secret []byte, cookieName string, ttl time.Duration, secure bool) *ViewMiddleware {
	codec := securecookie.New(secret, nil)
	codec.MaxAge(int(ttl.Seconds()))
	return &ViewMiddleware{
		codec:      codec,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// SetView reads the view cookie, issuing a new one when it is missing or tampered with,
// and stores the id in the request context. It never blocks a request.
func (m *ViewMiddleware) SetView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewID, ok := m.readView(r)
		if !ok {
			viewID = uuid.NewString()
		}
		// Refresh on every request so active views do not expire mid-session.
		if err := m.writeView(w, viewID); err != nil {
			log.Printf("Failed to set view cookie: %v", err)
		}

		ctx := localcontext.ContextSetView(r.Context(), viewID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *ViewMiddleware) readView(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}

	var viewID string
	if err := m.codec.Decode(m.cookieName, cookie.Value, &viewID); err != nil {
		return "", false
	}
	if _, err := uuid.Parse(viewID); err != nil {
		return "", false
	}
	return viewID, true
}

func (m *ViewMiddleware) writeView(w http.ResponseWriter, viewID string) error {
	encoded, err := m.codec.Encode(m.cookieName, viewID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// CurrentView is a helper to get the view id from any handler.
func CurrentView(r *http.Request) string {
	return localcontext.ContextGetView(r.Context())
}

// MustCurrentView is like CurrentView but panics if no view is set.
// Only use this in handlers mounted behind SetView.
func MustCurrentView(r *http.Request) string {
	viewID := localcontext.ContextGetView(r.Context())
	if viewID == "" {
		panic("MustCurrentView called without SetView middleware")
	}
	return viewID
}
