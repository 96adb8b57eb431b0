package cmd

import (
	"authboiler/internal/http/handler"
	"authboiler/internal/http/handler/middleware"
	"authboiler/internal/session"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func newRouter(logger *zap.SugaredLogger, sessions *session.Manager, routes []handler.Route) http.Handler {
	router := chi.NewRouter()

	router.Use(
		middleware.NewRequestIDMiddleware().RequestID,
		chimiddleware.RealIP,
		middleware.NewLoggingMiddleware(logger).Logging,
		chimiddleware.Recoverer,
		chimiddleware.GetHead,
		sessions.Middleware,
	)

	for _, route := range routes {
		router.MethodFunc(route.Method, route.Path, route.Handler)
	}

	return router
}
