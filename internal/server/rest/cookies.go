package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/common"
)

// CookieSettings describes the session cookie.
type CookieSettings struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

func (c CookieSettings) name() string {
	if c.Name == "" {
		return common.SessionCookieName
	}
	return c.Name
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookies.name(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookies.Secure,
		SameSite: s.cookies.SameSite,
		MaxAge:   int(s.cookies.MaxAge.Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookies.name(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookies.Secure,
		SameSite: s.cookies.SameSite,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// sessionToken returns the access token from the session cookie, falling
// back to an Authorization bearer header.
func (s *Server) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(s.cookies.name()); err == nil && c.Value != "" {
		return c.Value
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, common.AuthorizationScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
