// Package audit emits one structured log entry per HTTP request, recording
// the caller, the outcome and the authorized identity when present. Handlers
// and middleware further down the chain enrich the entry via the context.
package audit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level is the level audit entries are written at. Audit logging is part of
// the service contract, not debugging output, so it stays enabled whenever
// the logger itself is.
const Level = zerolog.InfoLevel

// Entry accumulates the auditable facts of a single request. Fields are
// exported so enriching middleware can set them directly.
type Entry struct {
	Method    string
	Path      string
	SourceIP  string
	UserAgent string
	RequestID string

	Status int
	Error  string

	Authorized     bool
	AuthSubject    string
	AuthIssuer     string
	AuthAudience   []string
	AuthExpirySecs int64
}

// Begin records the request facts available before the handler runs.
func (e *Entry) Begin(r *http.Request) {
	e.Method = r.Method
	e.Path = r.URL.Path
	e.SourceIP = r.RemoteAddr
	e.UserAgent = r.UserAgent()
}

// MarshalZerologObject writes the entry, omitting authorization detail for
// anonymous requests.
func (e *Entry) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("method", e.Method).
		Str("path", e.Path).
		Str("sourceIP", e.SourceIP).
		Str("userAgent", e.UserAgent).
		Int("status", e.Status)

	if e.RequestID != "" {
		ev.Str("requestID", e.RequestID)
	}
	if e.Error != "" {
		ev.Str("error", e.Error)
	}

	auth := NewOptionalEvent(nil)
	auth.Bool("authorized", e.Authorized)
	auth.Str("subject", e.AuthSubject).
		Str("issuer", e.AuthIssuer).
		Strs("audience", e.AuthAudience).
		Int64("expirySecs", e.AuthExpirySecs)
	auth.Set(ev, "auth")
}

type entryContextKey struct{}

// Context returns a context carrying an audit entry, creating one when the
// context has none. The same entry is returned on repeated calls.
func Context(ctx context.Context) (context.Context, *Entry) {
	if entry, ok := ctx.Value(entryContextKey{}).(*Entry); ok {
		return ctx, entry
	}
	entry := &Entry{}
	return context.WithValue(ctx, entryContextKey{}, entry), entry
}

// Log returns the entry for the current request, or a discarded placeholder
// when no audit middleware is installed. Enrichment of the placeholder is
// harmless.
func Log(ctx context.Context) *Entry {
	if entry, ok := ctx.Value(entryContextKey{}).(*Entry); ok {
		return entry
	}
	return &Entry{}
}

// End returns the function that writes the entry. When the request panicked,
// the panic is noted on the entry, the entry is still written, and the panic
// is re-raised for the server's recovery handling.
func (e *Entry) End(ctx context.Context) func() {
	return func() {
		if e.Status == 0 {
			e.Status = http.StatusOK
		}

		p := recover()
		if p != nil {
			if e.Error != "" {
				e.Error += "; "
			}
			e.Error += fmt.Sprintf("panic: %v", p)
		}

		logger := zerolog.Ctx(ctx)
		if logger.GetLevel() == zerolog.Disabled {
			logger = &log.Logger
		}
		logger.WithLevel(Level).EmbedObject(e).Msg("audit")

		if p != nil {
			panic(p)
		}
	}
}

// Middleware installs the request audit entry and writes it when the request
// completes, panics included.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, entry := Context(r.Context())
			entry.Begin(r)

			sw := &statusCapturingWriter{ResponseWriter: w}
			defer entry.End(ctx)()
			defer func() {
				entry.Status = sw.statusCode()
			}()

			next.ServeHTTP(sw, r.WithContext(ctx))
		})
	}
}

type statusCapturingWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusCapturingWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusCapturingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusCapturingWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
