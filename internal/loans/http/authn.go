package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"
)

type sessionKey struct{}

func withSession(ctx context.Context, s service.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, s)
	ctx = httpx.WithClaims(ctx, s.Claims)
	return slogx.With(ctx, "user_id", s.User.ID.String())
}

func sessionFrom(ctx context.Context) (service.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(service.Session)
	return s, ok
}

// attachSession adds the session when the request carries a valid token.
// Invalid tokens are ignored here; Authn rejects them on protected routes.
func attachSession(a *service.Authenticator, r *http.Request) *http.Request {
	token, ok := httpx.BearerToken(r)
	if !ok {
		return r
	}
	if sess, ok := a.AuthenticateOptional(r.Context(), token); ok {
		return r.WithContext(withSession(r.Context(), sess))
	}
	return r
}

// requireSession rejects requests without a valid, unrevoked token. A session put in
// place by the router's optional pass is reused.
func requireSession(a *service.Authenticator, errs errorWriter) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := sessionFrom(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := httpx.BearerToken(r)
			if !ok {
				errs.write(w, r, errAuthRequired)
				return
			}
			sess, err := a.Authenticate(r.Context(), token)
			if err != nil {
				slogx.FromContext(r.Context()).Info("authentication failed", "error", err)
				errs.write(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}

// clientInfo records the caller's address and user agent for auditing.
func clientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := service.WithClientInfo(r.Context(), service.ClientInfo{
			IP:        httpx.ClientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverer answers 500 when a handler panics.
func recoverer(errs errorWriter) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					errs.internal(w, r, panicError{v})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type panicError struct{ v any }

func (p panicError) Error() string { return "panic: " + fmtAny(p.v) }
