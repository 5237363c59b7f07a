package http

import (
	"net/http"
	"strings"
	"time"

	"voting/internal/observability/middleware"
	"voting/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SecretVerifier gates the admin surface. See impl.AdminSecretVerifier.
type SecretVerifier interface {
	Verify(presented string) bool
}

type RouterConfig struct {
	CORSOrigins  []string
	RateLimitRPM int
}

type Services struct {
	Votes      service.VoteService
	Sessions   service.SessionService
	Candidates service.CandidateService
	Roster     service.RosterService
	Tally      service.TallyService
}

func NewRouter(svc Services, admin SecretVerifier, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	if cfg.RateLimitRPM <= 0 {
		cfg.RateLimitRPM = 100
	}
	r.Use(httprate.LimitByIP(cfg.RateLimitRPM, 1*time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsOrWildcard(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id", "X-Admin-Email"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.WithRequestAndTrace)
	r.Use(middleware.WithMetrics)
	r.Use(securityHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	votes := &voteHandler{votes: svc.Votes}
	r.Route("/v1/vote", func(r chi.Router) {
		r.Get("/", votes.info)
		r.Post("/", votes.cast)
	})

	adm := &adminHandler{
		sessions:   svc.Sessions,
		candidates: svc.Candidates,
		roster:     svc.Roster,
		tally:      svc.Tally,
	}
	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(requireAdmin(admin))

		r.Post("/sessions", adm.createSession)
		r.Get("/sessions", adm.listSessions)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", adm.getSession)
			r.Post("/activate", adm.activateSession)
			r.Post("/close", adm.closeSession)
			r.Get("/candidates", adm.listCandidates)
			r.Post("/voters", adm.uploadVoters)
			r.Get("/voters", adm.listVoters)
			r.Get("/results", adm.results)
		})

		r.Post("/candidates", adm.addCandidate)
		r.Patch("/candidates/{candidateID}", adm.updateCandidate)
		r.Delete("/candidates/{candidateID}", adm.deactivateCandidate)
	})

	return r
}

// requireAdmin accepts the shared secret as a bearer token or the
// X-Admin-Secret header. Missing and wrong secrets are indistinguishable.
func requireAdmin(v SecretVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-Admin-Secret")
			if presented == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					presented = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if !v.Verify(presented) {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func originsOrWildcard(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
