package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"skillmap-backend/application/services"
	"skillmap-backend/infrastructure/config"
	"skillmap-backend/interfaces/http/rest/handlers"
	"skillmap-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	skillService    *services.SkillService
	skillMapService *services.SkillMapService
	cfg             *config.Config
	logger          *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	skillService *services.SkillService,
	skillMapService *services.SkillMapService,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		skillService:    skillService,
		skillMapService: skillMapService,
		cfg:             cfg,
		logger:          logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		skillHandler := handlers.NewSkillHandler(rt.skillService, rt.logger)
		r.Route("/skills", func(r chi.Router) {
			r.Post("/", skillHandler.CreateSkill)
			r.Get("/", skillHandler.ListSkills)
			r.Get("/{skillID}", skillHandler.GetSkill)
			r.Put("/{skillID}", skillHandler.UpdateSkill)
			r.Delete("/{skillID}", skillHandler.DeleteSkill)

			r.Get("/{skillID}/prerequisites", skillHandler.GetPrerequisites)
			r.Post("/{skillID}/prerequisites", skillHandler.AddPrerequisite)
			r.Delete("/{skillID}/prerequisites/{prerequisiteID}", skillHandler.DeletePrerequisite)
			r.Get("/{skillID}/successors", skillHandler.GetSuccessors)
		})

		skillMapHandler := handlers.NewSkillMapHandler(rt.skillMapService, rt.logger)
		r.Route("/courses/{courseID}", func(r chi.Router) {
			r.Get("/skill-map", skillMapHandler.GetSkillMap)
			r.Get("/skill-map/cycles", skillMapHandler.FindCycles)
			r.Get("/skills/{skillID}/lessons", skillMapHandler.GetLessonsForSkill)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
