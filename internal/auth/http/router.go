package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/flightbay/flightbay/internal/auth/registry"
	"github.com/flightbay/flightbay/internal/auth/service"
	"github.com/flightbay/flightbay/internal/auth/store"
	"github.com/flightbay/flightbay/pkg/httpx"
	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/flightbay/flightbay/pkg/slogx"

	_ "github.com/flightbay/flightbay/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	issuer       string
	baseURL      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	registry     *registry.Registry
	TokenService *service.TokenService
	AuditService *service.AuditService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	issuer, baseURL, buildVersion string,
	reg *registry.Registry,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		issuer:       issuer,
		baseURL:      baseURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		registry:     reg,
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerMetadata()
	r.registerAudit()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			FlightBay Authorization Service API
//	@version		0.1.0
//	@description	OAuth2-compliant authorization server for the FlightBay flight booking platform.
//	@description
//	@description				Machine-to-machine callers (flight search workers, booking services) authenticate
//	@description				with the client_credentials grant and receive HS256-signed JWT access tokens.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	// POST /token - strict rate limit by IP + client_id form field so one
	// noisy client cannot starve others behind the same NAT.
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/oauth2/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "client_id"),
		),
	)

	// Introspection endpoint (RFC7662) - requires authentication, moderate limit
	introspectHandler := &IntrospectHandler{Verifier: r.verifier, Audit: r.AuditService}
	r.Mux.Handle("POST /v1/oauth2/introspect",
		httpx.Chain(introspectHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByClient(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMetadata() {
	// RFC 8414 discovery document - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/oauth-authorization-server",
		httpx.Chain(MetadataHandler(r.issuer, r.baseURL, r.registry),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAudit() {
	h := &AuditEventsHandler{AuditService: r.AuditService}

	// GET /v1/audit/events - authenticated read of the audit trail
	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("audit:read"),
		httpx.RateLimitByClient(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/audit/events", secured)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
