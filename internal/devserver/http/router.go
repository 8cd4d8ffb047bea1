package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/service"
	"github.com/aussiebroadwan/clinic/internal/devserver/store"
	"github.com/aussiebroadwan/clinic/pkg/httpx"
	"github.com/aussiebroadwan/clinic/pkg/jwtx"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
)

// APIPrefix is where the REST contract is mounted.
const APIPrefix = "/api"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
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
	r.registerAuth()
	r.registerPatients()
	r.registerDoctors()
	r.registerMappings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and the per-user API limit.
func (r *Router) secured(h http.HandlerFunc, extra ...httpx.Middleware) http.Handler {
	mws := append([]httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(httpx.APILimit),
	}, extra...)
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints share one strict limiter per IP
	limit := httpx.RateLimitByIP(httpx.LoginLimit)

	r.Mux.Handle("POST "+APIPrefix+"/auth/login/{$}", httpx.Chain(http.HandlerFunc(h.HandleLogin), limit))
	r.Mux.Handle("POST "+APIPrefix+"/auth/register/{$}", httpx.Chain(http.HandlerFunc(h.HandleRegister), limit))
}

func (r *Router) registerPatients() {
	h := &PatientsHandler{Store: r.store}

	r.Mux.Handle("GET "+APIPrefix+"/patients/{$}", r.secured(h.HandleList))
	r.Mux.Handle("POST "+APIPrefix+"/patients/{$}", r.secured(h.HandleCreate))
	r.Mux.Handle("GET "+APIPrefix+"/patients/{id}/{$}", r.secured(h.HandleGet))
	r.Mux.Handle("PUT "+APIPrefix+"/patients/{id}/{$}", r.secured(h.HandleUpdate))
	r.Mux.Handle("PATCH "+APIPrefix+"/patients/{id}/{$}", r.secured(h.HandlePatch))
	r.Mux.Handle("DELETE "+APIPrefix+"/patients/{id}/{$}", r.secured(h.HandleDelete))
}

func (r *Router) registerDoctors() {
	h := &DoctorsHandler{Store: r.store}

	r.Mux.Handle("GET "+APIPrefix+"/doctors/{$}", r.secured(h.HandleList))
	r.Mux.Handle("POST "+APIPrefix+"/doctors/{$}", r.secured(h.HandleCreate))
	r.Mux.Handle("GET "+APIPrefix+"/doctors/{id}/{$}", r.secured(h.HandleGet))
	r.Mux.Handle("PUT "+APIPrefix+"/doctors/{id}/{$}", r.secured(h.HandleUpdate))

	// Only admins may remove a doctor
	r.Mux.Handle("DELETE "+APIPrefix+"/doctors/{id}/{$}",
		r.secured(h.HandleDelete, httpx.RequireRole(domain.RoleAdmin)),
	)
}

func (r *Router) registerMappings() {
	h := &MappingsHandler{Store: r.store}

	r.Mux.Handle("GET "+APIPrefix+"/mappings/{$}", r.secured(h.HandleList))
	r.Mux.Handle("POST "+APIPrefix+"/mappings/{$}", r.secured(h.HandleCreate))
	r.Mux.Handle("GET "+APIPrefix+"/mappings/{id}/{$}", r.secured(h.HandlePatientDoctors))
	r.Mux.Handle("DELETE "+APIPrefix+"/mappings/{id}/{$}", r.secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
