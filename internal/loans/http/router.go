package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"

	_ "github.com/aussiebroadwan/loandesk/api/loandesk" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers. The service fields
// must be set before ApplyRoutes.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler
	once        sync.Once

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	errs         errorWriter
	metrics      *httpx.Metrics

	store         store.Store
	Authenticator *service.Authenticator
	Sessions      *service.SessionService
	Users         *service.UserService
	MFA           *service.MFAService
	Applications  *service.ApplicationService
	Audit         *service.AuditService

	// TrustedProxies are the peers whose forwarding headers name the
	// caller. Empty means the socket address is always used.
	TrustedProxies httpx.TrustedProxies
}

// NewRouter builds a router. metrics may be nil, in which case routes are
// not instrumented and /metrics is not served. production hides internal
// error details and turns on HSTS.
func NewRouter(
	buildVersion string,
	production bool,
	st store.Store,
	logger *slog.Logger,
	metrics *httpx.Metrics,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		errs:         errorWriter{Production: production},
		metrics:      metrics,
		store:        st,
	}

	// Outermost first. Optional authentication runs before the general limit
	// so signed in callers are keyed by user rather than address.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		recoverer(r.errs),
		httpx.SecurityHeaders(production),
		r.realIP,
		clientInfo,
		r.optionalAuthn,
		httpx.RateLimitByUser(httpx.GeneralLimit, r.limitOpt()),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerProfile()
	r.registerApplications()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			LoanDesk API
//	@version		0.1.0
//	@description	Loan application service: customer accounts, session tokens, role based access and the application workflow from draft to signed agreement.
//	@description
//	@description				Session tokens are HS256 JWTs returned in the Authorization response header of signup, login and refresh.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/loandesk
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() { r.handler = httpx.Chain(r.Mux, r.middlewares...) })
	r.handler.ServeHTTP(w, req)
}

// handle registers h under pattern, wrapped in mws and instrumented under
// the pattern name.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	h = httpx.Chain(h, mws...)
	if r.metrics != nil {
		h = r.metrics.Instrument(pattern, h)
	}
	r.Mux.Handle(pattern, h)
}

func (r *Router) authn() httpx.Middleware {
	return requireSession(r.Authenticator, r.errs)
}

// optionalAuthn lets every request through, attaching the session when the
// token is valid. r.Authenticator is read per request since it is wired
// after NewRouter.
func (r *Router) optionalAuthn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		next.ServeHTTP(w, attachSession(r.Authenticator, req))
	})
}

// realIP resolves the caller address against r.TrustedProxies, read per
// request like r.Authenticator.
func (r *Router) realIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip := r.TrustedProxies.Resolve(req)
		next.ServeHTTP(w, req.WithContext(httpx.WithClientIP(req.Context(), ip)))
	})
}

// limitOpt audits every rejected request and answers with an error envelope.
func (r *Router) limitOpt() httpx.RateLimitOption {
	return httpx.WithLimitedHandler(func(w http.ResponseWriter, req *http.Request, _ string, retryAfter time.Duration) {
		ctx := req.Context()
		var actorID idx.ID
		if sess, ok := sessionFrom(ctx); ok {
			actorID = sess.User.ID
		}
		if r.Audit != nil {
			r.Audit.Record(ctx, service.Event{
				Type:    domain.EventRateLimitExceeded,
				ActorID: actorID,
				Metadata: map[string]any{
					"endpoint":    req.Method + " " + req.URL.Path,
					"retry_after": int(retryAfter.Round(time.Second) / time.Second),
				},
			})
		}
		httpx.WriteError(w, http.StatusTooManyRequests, httpx.ErrorBody{
			Code:    loansdk.CodeRateLimitExceeded,
			Message: "Too many requests. Please try again later.",
		})
	})
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Sessions: r.Sessions, Users: r.Users, errs: r.errs}

	// POST /signup - strict limit by IP (account creation)
	r.handle("POST /v1/auth/signup", http.HandlerFunc(h.HandleSignup),
		httpx.RateLimitByIP(httpx.SignupLimit, r.limitOpt()),
	)

	// POST /login - strict limit by IP + email to slow credential stuffing
	r.handle("POST /v1/auth/login", http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIPAndJSONField(httpx.LoginLimit, "email", r.limitOpt()),
	)

	r.handle("DELETE /v1/auth/logout", http.HandlerFunc(h.HandleLogout),
		r.authn(),
		httpx.RateLimitByUser(httpx.ModerateLimit, r.limitOpt()),
	)
	r.handle("POST /v1/auth/refresh", http.HandlerFunc(h.HandleRefresh),
		r.authn(),
		httpx.RateLimitByUser(httpx.ModerateLimit, r.limitOpt()),
	)

	// PUT /password - strict limit, the current password is checked
	r.handle("PUT /v1/auth/password", http.HandlerFunc(h.HandleChangePassword),
		r.authn(),
		httpx.RateLimitByUser(httpx.LoginLimit, r.limitOpt()),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFA: r.MFA, errs: r.errs}

	r.handle("GET /v1/mfa/totp", http.HandlerFunc(h.HandleStatus),
		r.authn(),
	)
	r.handle("POST /v1/mfa/totp/setup", http.HandlerFunc(h.HandleSetup),
		r.authn(),
		httpx.RateLimitByUser(httpx.ModerateLimit, r.limitOpt()),
	)

	// enable and disable verify a code - strict limit against brute force
	r.handle("POST /v1/mfa/totp/enable", http.HandlerFunc(h.HandleEnable),
		r.authn(),
		httpx.RateLimitByUser(httpx.LoginLimit, r.limitOpt()),
	)
	r.handle("DELETE /v1/mfa/totp", http.HandlerFunc(h.HandleDisable),
		r.authn(),
		httpx.RateLimitByUser(httpx.LoginLimit, r.limitOpt()),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{Users: r.Users, Audit: r.Audit, errs: r.errs}

	r.handle("GET /v1/profile", http.HandlerFunc(h.HandleGet),
		r.authn(),
		httpx.RequireAnyScope(domain.ScopeProfileRead),
	)
	r.handle("GET /v1/profile/activity", http.HandlerFunc(h.HandleActivity),
		r.authn(),
		httpx.RequireAnyScope(domain.ScopeProfileRead),
	)
	r.handle("PATCH /v1/profile", http.HandlerFunc(h.HandleUpdate),
		r.authn(),
		httpx.RequireAnyScope(domain.ScopeProfileWrite),
	)
	r.handle("GET /v1/users", http.HandlerFunc(h.HandleListUsers),
		r.authn(),
		httpx.RequireAnyScope(domain.ScopeUsersRead),
	)
}

func (r *Router) registerApplications() {
	h := &ApplicationHandler{Applications: r.Applications, errs: r.errs}

	read := httpx.RequireAnyScope(domain.ScopeApplicationsRead)
	write := httpx.RequireAnyScope(domain.ScopeApplicationsWrite)
	// Reviewers and approvers both move applications through review.
	review := httpx.RequireAnyScope(domain.ScopeApplicationsReview, domain.ScopeApplicationsApprove)

	r.handle("GET /v1/applications", http.HandlerFunc(h.HandleList), r.authn(), read)
	r.handle("POST /v1/applications", http.HandlerFunc(h.HandleCreate), r.authn(), write)
	r.handle("GET /v1/applications/{id}", http.HandlerFunc(h.HandleGet), r.authn(), read)
	r.handle("PATCH /v1/applications/{id}", http.HandlerFunc(h.HandleUpdate), r.authn(), write)
	r.handle("DELETE /v1/applications/{id}", http.HandlerFunc(h.HandleDelete), r.authn(), write)
	r.handle("GET /v1/applications/{id}/history", http.HandlerFunc(h.HandleHistory), r.authn(), read)
	r.handle("GET /v1/applications/{id}/notes", http.HandlerFunc(h.HandleNotes), r.authn(), read)
	r.handle("POST /v1/applications/{id}/notes", http.HandlerFunc(h.HandleAddNote), r.authn(), read)

	r.handle("POST /v1/applications/{id}/submit", http.HandlerFunc(h.HandleSubmit), r.authn(), write)
	r.handle("POST /v1/applications/{id}/review", http.HandlerFunc(h.HandleReview), r.authn(), review)
	r.handle("POST /v1/applications/{id}/request-documents", http.HandlerFunc(h.HandleRequestDocuments), r.authn(), review)
	r.handle("POST /v1/applications/{id}/resubmit", http.HandlerFunc(h.HandleResubmit), r.authn(), write)
	r.handle("POST /v1/applications/{id}/approve", http.HandlerFunc(h.HandleApprove), r.authn(),
		httpx.RequireAnyScope(domain.ScopeApplicationsApprove))
	r.handle("POST /v1/applications/{id}/reject", http.HandlerFunc(h.HandleReject), r.authn(),
		httpx.RequireAnyScope(domain.ScopeApplicationsReject))
	r.handle("POST /v1/applications/{id}/sign", http.HandlerFunc(h.HandleSign), r.authn(), write)
}

func (r *Router) registerSystem() {
	// Health checks - the general limit is enough for probes
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
