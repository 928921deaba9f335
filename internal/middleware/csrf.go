package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
)

const csrfHeader = "X-CSRF-Token"

// CSRFFormField names the hidden input carrying the token in plain form posts.
const CSRFFormField = "csrf_token"

// CSRF ties a token to the visitor session and requires it on unsafe methods, either in
// the X-CSRF-Token header (htmx) or the csrf_token form field.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusInternalServerError, "session unavailable")
			return
		}
		token := sess.CSRFToken()

		if !isSafeMethod(r.Method) {
			submitted := r.Header.Get(csrfHeader)
			if submitted == "" {
				submitted = r.PostFormValue(CSRFFormField)
			}
			if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				writeError(w, r, http.StatusForbidden, "invalid CSRF token")
				return
			}
		}

		ctx := context.WithValue(r.Context(), ctxKeyCSRF, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
