package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, Accept, X-Request-ID"
	corsMaxAge       = "86400"
)

// corsPolicy is the parsed CORS_ALLOWED_ORIGINS list. The entry "*" admits
// any origin but never with credentials.
type corsPolicy struct {
	origins   map[string]struct{}
	anyOrigin bool
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[o] = struct{}{}
		}
	}
	return p
}

// apply sets the allow headers for origin and reports whether it is allowed.
func (p corsPolicy) apply(h http.Header, origin string) bool {
	if origin == "" {
		return false
	}
	h.Add("Vary", "Origin")
	if _, ok := p.origins[origin]; ok {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		return true
	}
	if p.anyOrigin {
		h.Set("Access-Control-Allow-Origin", "*")
		return true
	}
	return false
}

// CORS adds CORS headers for allowed origins and answers OPTIONS preflight
// requests with 204. Disallowed origins get no allow headers, so browsers
// block the response.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := policy.apply(w.Header(), r.Header.Get("Origin"))
		if r.Method == http.MethodOptions {
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
