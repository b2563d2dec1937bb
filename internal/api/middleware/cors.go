package middleware

import "net/http"

const (
	allowHeaders = "Content-Type,Authorization,X-Requested-With,X-Request-Id"
	allowMethods = "GET,POST,PUT,DELETE,OPTIONS"
)

// CORS returns a middleware that attaches the CORS header set to every
// response, including errors and panics from downstream handlers. The
// echoed Access-Control-Allow-Origin is computed per request by set
// membership against the Origin header; requests with no Origin or an
// unknown one fall back to the first configured origin. A browser that
// receives an error without these headers cannot distinguish it from a
// network failure, so this middleware must sit outermost and must never
// be conditional on routing.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	fallback := "*"
	if len(allowedOrigins) > 0 {
		fallback = allowedOrigins[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := fallback
			if reqOrigin := r.Header.Get("Origin"); reqOrigin != "" && allowed[reqOrigin] {
				origin = reqOrigin
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Credentials", "false")
			h.Add("Vary", "Origin")

			// Preflight short-circuits before any routing logic.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
