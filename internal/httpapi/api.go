package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"beneficios.club/internal/audit"
	"beneficios.club/internal/auth"
	"beneficios.club/internal/catalog"
	"beneficios.club/internal/obs"
	"beneficios.club/internal/stream"
)

// ReadyProbe checks dependencies for /readyz (DB ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Deps carries the services the API layer is built on.
type Deps struct {
	Auth       *auth.Service
	Identities auth.IdentityStore
	Registry   auth.AdminRegistry
	Catalog    *catalog.Service
	Audit      audit.Store
	Recorder   *audit.Recorder
	Stream     *stream.Stream

	MaxBodyBytes int64
	RateBurst    int
	RatePerSec   int
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	authSvc    *auth.Service
	identities auth.IdentityStore
	registry   auth.AdminRegistry
	verifier   *auth.Verifier
	catalog    *catalog.Service
	audits     audit.Store
	recorder   *audit.Recorder
	stream     *stream.Stream

	maxBodyBytes int64
	rateBurst    int
	ratePerSec   int
}

func New(rp ReadyProbe, version string, deps Deps) *API {
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   rp,
		version:      version,
		authSvc:      deps.Auth,
		identities:   deps.Identities,
		registry:     deps.Registry,
		verifier:     auth.NewVerifier(deps.Registry, deps.Identities),
		catalog:      deps.Catalog,
		audits:       deps.Audit,
		recorder:     deps.Recorder,
		stream:       deps.Stream,
		maxBodyBytes: deps.MaxBodyBytes,
		rateBurst:    deps.RateBurst,
		ratePerSec:   deps.RatePerSec,
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 40
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 20
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// identity
	a.mux.HandleFunc("/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)

	// admin-role registry management
	a.mux.HandleFunc("/v1/admin/roles", a.handleAdminRolesCollection)
	a.mux.HandleFunc("/v1/admin/roles/", a.handleAdminRoleResource)

	// catalog entities
	a.mux.HandleFunc("/v1/beneficios", a.handleBenefitsCollection)
	a.mux.HandleFunc("/v1/beneficios/", a.handleBenefitResource)
	a.mux.HandleFunc("/v1/wallets", a.handleWalletsCollection)
	a.mux.HandleFunc("/v1/wallets/", a.handleWalletResource)
	for entityType := range catalog.ReferenceTypes {
		entityType := entityType
		a.mux.HandleFunc("/v1/"+entityType, func(w http.ResponseWriter, r *http.Request) {
			a.handleReferenceCollection(w, r, entityType)
		})
		a.mux.HandleFunc("/v1/"+entityType+"/", func(w http.ResponseWriter, r *http.Request) {
			a.handleReferenceResource(w, r, entityType)
		})
	}

	// audit trail
	a.mux.HandleFunc("/v1/audit", a.handleAudit)
	a.mux.HandleFunc("/v1/audit/stream", a.handleAuditStream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}
