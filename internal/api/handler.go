// Package api provides the HTTP handlers for the registration REST API.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"meetreg/internal/domain"
	"meetreg/internal/middleware"
	"meetreg/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth          *service.AuthService
	athletes      *service.AthleteService
	registrations *service.RegistrationService
	summary       *service.SummaryService
	events        *service.EventService
	groups        *service.GroupService
	window        *service.RegistrationWindowJob
}

func NewHandler(
	auth *service.AuthService,
	athletes *service.AthleteService,
	registrations *service.RegistrationService,
	summary *service.SummaryService,
	events *service.EventService,
	groups *service.GroupService,
	window *service.RegistrationWindowJob,
) *Handler {
	return &Handler{
		auth:          auth,
		athletes:      athletes,
		registrations: registrations,
		summary:       summary,
		events:        events,
		groups:        groups,
		window:        window,
	}
}

// RouterConfig carries the cross-cutting knobs the router needs.
type RouterConfig struct {
	JWTSecret []byte
	RateLimit middleware.RateLimitConfig
	CORS      cors.Options
}

// Router builds the chi router: public health and login endpoints, then the
// authenticated /v1 surface behind JWT auth.
func (h *Handler) Router(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cfg.CORS))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(middleware.RateLimiter(cfg.RateLimit))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/auth/login", h.login)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Get("/auth/validate", h.validate)
		r.Post("/auth/refresh", h.refresh)
		r.Put("/auth/password", h.setPassword)

		r.Get("/groups", h.listGroups)
		r.Get("/groups/{id}", h.getGroup)
		r.Get("/events", h.listEvents)
		r.Get("/events/by-group/{groupID}", h.listGroupEvents)

		r.Get("/athletes", h.listAthletes)
		r.Post("/athletes", h.createAthlete)
		r.Get("/athletes/{id}", h.getAthlete)
		r.Put("/athletes/{id}", h.updateAthlete)
		r.Delete("/athletes/{id}", h.deleteAthlete)

		r.Get("/registrations/by-athlete/{athleteID}", h.getAthleteRegistrations)
		r.Put("/registrations/by-athlete/{athleteID}", h.replaceAthleteRegistrations)
		r.Post("/registrations/leaders", h.addLeader)
		r.Delete("/registrations/leaders/{id}", h.removeLeader)
		r.Get("/registrations/summary", h.getSummary)
		r.Get("/registrations/events/{eventID}/statistics", h.getEventStatistics)
		r.Get("/registrations/overview", h.getOverview)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/registration-windows/close", h.closeWindows)
		})
	})

	return r
}

// closeWindows runs the registration-window job on demand. The server also
// runs it on a schedule; this endpoint exists for admins who just closed a
// meet's window and want the status flip immediately.
func (h *Handler) closeWindows(w http.ResponseWriter, r *http.Request) {
	if err := h.window.Run(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// principal returns the authenticated caller; the auth middleware guarantees
// presence on /v1 routes.
func principal(r *http.Request) domain.Principal {
	p, _ := domain.PrincipalFromContext(r.Context())
	return p
}

// teamScope resolves the team a request acts on. Team principals act on
// their own team; admins select any team with ?team_id=. A team naming a
// foreign team is rejected with an AuthorizationError.
func teamScope(r *http.Request) (int64, error) {
	p := principal(r)
	raw := r.URL.Query().Get("team_id")
	if raw == "" {
		if p.Admin() {
			return 0, domain.ErrValidation("admin requests must select a team with team_id")
		}
		return p.TeamID, nil
	}
	teamID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || teamID <= 0 {
		return 0, domain.ErrValidation("invalid team_id %q", raw)
	}
	if !p.CanAccessTeam(teamID) {
		return 0, domain.ErrAuthorization("cannot act on behalf of team %d", teamID)
	}
	return teamID, nil
}

// pathID parses a chi URL parameter as an int64 id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation("invalid %s", name)
	}
	return id, nil
}
