package server

import "net/http"

// securityHeaders wraps an http.Handler to add security headers to all responses.
type securityHeaders struct {
	handler http.Handler
	devMode bool
}

func newSecurityHeaders(handler http.Handler, devMode bool) http.Handler {
	return &securityHeaders{handler: handler, devMode: devMode}
}

// ServeHTTP implements http.Handler, adding security headers before delegating.
func (s *securityHeaders) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()

	// In dev mode, disable browser caching so reloaded engine settings show immediately
	if s.devMode {
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
	}

	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")

	s.handler.ServeHTTP(w, r)
}
