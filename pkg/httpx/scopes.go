package httpx

import (
	"net/http"
	"strings"
)

// RequireAnyScope rejects callers holding none of the listed scopes.
func RequireAnyScope(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		want[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range scopesFromCtx(r.Context()) {
				if _, ok := want[s]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeScopeError(w, required)
		})
	}
}

func writeScopeError(w http.ResponseWriter, required []string) {
	w.Header().Set("WWW-Authenticate",
		`Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteError(w, http.StatusForbidden, ErrorBody{
		Code:    "Forbidden",
		Message: "Insufficient scope for this action.",
		InnerError: map[string]any{
			"code":     "InsufficientScope",
			"required": required,
		},
	})
}
