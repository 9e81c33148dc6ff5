package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"transpors.dev/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// SetRoutes registers every endpoint on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/stops", api.withAPIKey(api.stopsHandler))
	router.HandlerFunc(http.MethodGet, "/api/stops/:id/departures", api.withAPIKey(api.stopDeparturesHandler))
	router.HandlerFunc(http.MethodGet, "/api/departures", api.withAPIKey(api.departuresHandler))
	router.HandlerFunc(http.MethodGet, "/api/current-time", api.withAPIKey(api.currentTimeHandler))
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)
	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)
}

// Handler returns the router wrapped in the middleware chain: request logging,
// security headers, per-client rate limiting and compression.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter.Handler(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}

// Close stops the rate limiter's background cleanup.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}

func (api *RestAPI) withAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		next(w, r)
	}
}
