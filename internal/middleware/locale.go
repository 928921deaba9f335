package middleware

import (
	"context"
	"net/http"

	"sdchassis.be/web/internal/i18n"
)

const langCookie = "hl"

// Locale resolves the visitor language from ?hl=, the session, the hl cookie, then
// Accept-Language, and remembers it in the session.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
			sess, _ := SessionFromContext(ctx)

			var lang string
			if q := bundle.Normalize(r.URL.Query().Get("hl")); q != "" {
				lang = q
				http.SetCookie(w, &http.Cookie{Name: langCookie, Value: q, Path: "/", SameSite: http.SameSiteLaxMode})
			} else if sess != nil && bundle.IsSupported(sess.Locale()) {
				lang = sess.Locale()
			} else if c, err := r.Cookie(langCookie); err == nil && bundle.Normalize(c.Value) != "" {
				lang = bundle.Normalize(c.Value)
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			if sess != nil {
				sess.SetLocale(lang)
			}

			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLang(ctx, lang)))
		})
	}
}

// VaryLocale sets Vary for Accept-Language on dynamic responses.
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
