package app

import (
	"context"
	"net/http"
	"time"

	"directory.fixr.org/internal/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

// Routes registers the HTTP surface and returns the final handler.
//
//   - GET  /v1/healthcheck: health, readiness and loading state
//   - GET  /v1/providers: filtered, proximity-ranked record list
//   - POST /v1/providers: new-record submission flow
//   - GET  /v1/categories: browsing category catalog
//   - GET  /metrics: cached Prometheus exposition
//
// The router is wrapped with Sentry middleware for error capture and with
// the security headers middleware.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/v1/providers", app.listProvidersHandler)
	router.HandlerFunc(http.MethodPost, "/v1/providers", app.createProviderHandler)
	router.HandlerFunc(http.MethodGet, "/v1/categories", app.listCategoriesHandler)
	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second))

	handler := middleware.SentryMiddleware(router)
	return middleware.SecurityHeaders(handler)
}
