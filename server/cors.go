package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/sambeau/unitconv/config"
)

// corsHandler adds Cross-Origin Resource Sharing headers so dashboards on
// other origins can read the unit API.
type corsHandler struct {
	handler http.Handler
	config  config.CORSConfig
}

// newCORSHandler wraps handler. With no origins configured it returns
// handler unchanged.
func newCORSHandler(handler http.Handler, cfg config.CORSConfig) http.Handler {
	if len(cfg.Origins) == 0 {
		return handler
	}
	return &corsHandler{handler: handler, config: cfg}
}

func (c *corsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	// No Origin header means same-origin request - no CORS needed
	if origin == "" || !c.isOriginAllowed(origin) {
		// Browser will block the response for a disallowed origin
		c.handler.ServeHTTP(w, r)
		return
	}

	c.setCORSHeaders(w, origin)

	// Preflight requests never reach the routes
	if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
		c.handlePreflight(w, r)
		return
	}

	c.handler.ServeHTTP(w, r)
}

func (c *corsHandler) isOriginAllowed(origin string) bool {
	return slices.Contains(c.config.Origins, "*") || slices.Contains(c.config.Origins, origin)
}

func (c *corsHandler) setCORSHeaders(w http.ResponseWriter, origin string) {
	// Use specific origin when credentials are enabled (not "*")
	if c.config.Credentials || !slices.Contains(c.config.Origins, "*") {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	} else {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}

	if c.config.Credentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}

	// Vary: Origin ensures different origins get different cached responses
	w.Header().Add("Vary", "Origin")
}

func (c *corsHandler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	methods := c.config.Methods
	if len(methods) == 0 {
		methods = []string{"GET", "HEAD", "POST"}
	}
	w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))

	if len(c.config.Headers) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(c.config.Headers, ", "))
	} else if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		// If not configured, echo back the requested headers
		w.Header().Set("Access-Control-Allow-Headers", requested)
	}

	if c.config.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(c.config.MaxAge))
	}

	w.WriteHeader(http.StatusNoContent)
}
