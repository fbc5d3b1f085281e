package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"GO2GETHER_BUDGET/internal/config"
	"GO2GETHER_BUDGET/internal/handlers"
	"GO2GETHER_BUDGET/internal/middleware"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Health *handlers.HealthHandler
	Trips  *handlers.TripsHandler
	Budget *handlers.BudgetHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, jwtCfg *config.JWTConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Health check routes
	r.Get("/healthz", h.Health.HealthCheck)
	r.Get("/livez", h.Health.LivenessCheck)
	r.Get("/readyz", h.Health.ReadinessCheck)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtCfg))

		r.Post("/trips", h.Trips.CreateTrip)
		r.Route("/trips/{tripId}", func(r chi.Router) {
			r.Get("/", h.Trips.TripDetail)
			r.Post("/members", h.Trips.JoinTrip)
			r.Delete("/members/me", h.Trips.LeaveTrip)

			r.Get("/budget", h.Budget.ListBudget)
			r.Post("/budget", h.Budget.CreateBudgetItem)
			r.Put("/budget/{itemId}", h.Budget.UpdateBudgetItem)
			r.Delete("/budget/{itemId}", h.Budget.DeleteBudgetItem)
			r.Get("/budget/{itemId}/splits", h.Budget.ListItemSplits)
		})
	})

	// Root route
	r.Get("/", rootHandler)
	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Go2gether budget service is running."))
}
