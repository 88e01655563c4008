package middleware

import "net/http"

// RequireXHR rejects requests that do not carry
// "X-Requested-With: XMLHttpRequest" with 403. Browsers do not add the
// header to cross-site form posts.
func RequireXHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			writeError(w, http.StatusForbidden, "forbidden", "XMLHttpRequest required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
