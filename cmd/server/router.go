package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tareaspendientes/tareas-api/internal/api"
	apiMiddleware "github.com/tareaspendientes/tareas-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS(app.config.Server.AllowedOrigin))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userService, app.logger)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	periodicTaskHandler := api.NewPeriodicTaskHandler(app.periodicTaskService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryService, app.logger)
	historyHandler := api.NewHistoryHandler(app.historyService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.scoreboardService, app.location, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Handle("/ws", app.hub)

			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
			r.Get("/tasks/{id}/history", taskHandler.History)

			r.Get("/history", historyHandler.List)

			r.Get("/periodic-tasks", periodicTaskHandler.List)
			r.Post("/periodic-tasks", periodicTaskHandler.Create)
			r.Patch("/periodic-tasks/{id}", periodicTaskHandler.Update)
			r.Delete("/periodic-tasks/{id}", periodicTaskHandler.Delete)

			r.Get("/categories", categoryHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)
				r.Post("/categories", categoryHandler.Create)
				r.Patch("/categories/{id}", categoryHandler.Update)
				r.Delete("/categories/{id}", categoryHandler.Delete)
			})

			r.Get("/users", userHandler.List)
			r.Get("/users/me", userHandler.Me)
			r.Get("/users/scores", userHandler.Scores)
			r.Get("/scoreboard", userHandler.Scoreboard)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
