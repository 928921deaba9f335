package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sdchassis.be/web/internal/observability"
	"sdchassis.be/web/internal/session"
)

// SessionStore abstracts the session manager for middleware integration.
type SessionStore interface {
	Load(*http.Request) (*session.Session, error)
	New() *session.Session
	Save(http.ResponseWriter, *session.Session) error
	Destroy(http.ResponseWriter)
}

// Session attaches the decoded session to the request context. Changed sessions are
// written back just before the response header goes out.
func Session(store SessionStore) func(http.Handler) http.Handler {
	if store == nil {
		panic("session store is required")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := observability.FromContext(r.Context())
			sess, err := store.Load(r)
			if errors.Is(err, session.ErrExpired) {
				store.Destroy(w)
				sess = store.New()
			} else if err != nil || sess == nil {
				if err != nil {
					logger.Warn("session load failed", zap.Error(err))
				}
				sess = store.New()
			}

			sw := &sessionWriter{ResponseWriter: w, persist: func(w http.ResponseWriter) {
				if !sess.Dirty() {
					return
				}
				if err := store.Save(w, sess); err != nil {
					logger.Warn("session save failed", zap.Error(err))
				}
			}}
			next.ServeHTTP(sw, r.WithContext(WithSession(r.Context(), sess)))
			sw.flushHeader()
		})
	}
}

type sessionWriter struct {
	http.ResponseWriter
	persist func(http.ResponseWriter)
	done    bool
}

func (w *sessionWriter) flushHeader() {
	if w.done {
		return
	}
	w.done = true
	w.persist(w.ResponseWriter)
}

func (w *sessionWriter) WriteHeader(status int) {
	w.flushHeader()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flushHeader()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Flush() {
	w.flushHeader()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
