// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PJhaveri02/Booking-Service/internal/handler"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
	"github.com/PJhaveri02/Booking-Service/internal/middleware"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Catalog       *handler.CatalogHandler
	Seats         *handler.SeatHandler
	Bookings      *handler.BookingHandler
	Subscriptions *handler.SubscriptionHandler
}

// Options carries the cross-cutting pieces of the route table. Nil
// middleware is skipped.
type Options struct {
	JWTSecret string
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// New returns an echo instance with the common middleware and every route
// registered.
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.RequestID())
	if opts.Metrics != nil {
		e.Use(middleware.Prometheus(opts.Metrics))
	}
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())

	RegisterRoutes(e, h.Health, opts.Gatherer)
	RegisterAuth(e, h.Auth, opts.JWTSecret)
	RegisterPublic(e, h.Catalog, h.Seats, opts.Cache)
	RegisterBookings(e, h.Bookings, h.Subscriptions, opts.JWTSecret, opts.RateLimit)
	return e
}

// RegisterRoutes registers the health and metrics endpoints.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler, g prometheus.Gatherer) {
	e.GET("/healthz", health.Check)
	if g != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}
}

// RegisterAuth registers login, refresh and logout under /v1/auth. Only
// logout needs an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated catalog and seat reads.
func RegisterPublic(e *echo.Echo, c *handler.CatalogHandler, s *handler.SeatHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1")
	g.GET("/concerts", c.ListConcerts, mw...)
	g.GET("/concerts/summaries", c.ConcertSummaries, mw...)
	g.GET("/concerts/:id", c.GetConcert, mw...)
	g.GET("/performers", c.ListPerformers, mw...)
	g.GET("/performers/:id", c.GetPerformer, mw...)

	// seat availability changes with every booking and is never cached
	e.GET("/v1/seats/:date", s.List)
}

// RegisterBookings registers the authenticated booking and subscription
// endpoints. The rate limiter runs after JWTAuth so it can key on the user.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, s *handler.SubscriptionHandler, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}
	if rateLimit != nil {
		mw = append(mw, rateLimit)
	}
	g := e.Group("/v1")
	g.POST("/bookings", b.Create, mw...)
	g.GET("/bookings", b.List, mw...)
	g.GET("/bookings/:id", b.Get, mw...)
	g.POST("/subscribe/concertInfo", s.Subscribe, mw...)
}
