// Package handler implements the HTTP handlers for the Voya API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/metrics"
	"github.com/pkordes/voya/internal/middleware"
	"github.com/pkordes/voya/internal/service"
)

// TripServicer defines the business operations the trip handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, id int64) (domain.Trip, error)
	ListPaged(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, userID, id int64) error
}

// StopServicer defines the business operations the stop handler depends on.
type StopServicer interface {
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	ListByTrip(ctx context.Context, userID, tripID int64) ([]domain.StopView, error)
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	Delete(ctx context.Context, userID, tripID, stopID int64) error
}

// ItineraryServicer builds the day-by-day view of a trip.
type ItineraryServicer interface {
	View(ctx context.Context, userID, tripID int64, day string, window int) (domain.Itinerary, error)
}

// ExportServicer produces the flat export of a user's data.
type ExportServicer interface {
	Export(ctx context.Context, userID int64) ([]domain.ExportRow, error)
}

// AccountServicer covers sign-up, login and session checks.
type AccountServicer interface {
	RequestVerification(ctx context.Context, email string) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	CompleteRegistration(ctx context.Context, in service.RegistrationInput) (domain.Session, error)
	Login(ctx context.Context, identifier, password string) (domain.Session, error)
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
	Logout(ctx context.Context, p domain.Principal) error
}

// Options holds the optional settings of a Server. The zero value is valid.
type Options struct {
	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool

	// AuthLimiter wraps the credential endpoints, usually a
	// middleware.NewRateLimiter. Nil disables rate limiting.
	AuthLimiter func(http.Handler) http.Handler

	// Metrics records auth attempts and itinerary views. Nil records nothing.
	Metrics *metrics.Metrics

	now func() time.Time
}

// Server holds the dependencies of every handler.
type Server struct {
	trips     TripServicer
	stops     StopServicer
	itinerary ItineraryServicer
	export    ExportServicer
	accounts  AccountServicer
	opts      Options
}

// NewServer constructs the Server with all its dependencies.
// Tests may pass nil for services their routes do not touch.
func NewServer(trips TripServicer, stops StopServicer, itinerary ItineraryServicer,
	export ExportServicer, accounts AccountServicer, opts Options) *Server {
	if opts.now == nil {
		opts.now = time.Now
	}
	return &Server{
		trips:     trips,
		stops:     stops,
		itinerary: itinerary,
		export:    export,
		accounts:  accounts,
		opts:      opts,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil, Options{})
}

// Routes registers every API route on r.
func (s *Server) Routes(r chi.Router) {
	limit := s.opts.AuthLimiter
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/healthz", s.GetHealth)
	r.Get("/ping", s.Ping)

	r.Route("/auth", func(r chi.Router) {
		r.With(limit).Post("/verification", s.RequestVerification)
		r.Get("/verify-email/{token}", s.VerifyEmail)
		r.With(limit).Post("/register", s.Register)
		r.With(limit).Post("/login", s.Login)
		r.With(s.requireSession).Post("/logout", s.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/trips", s.ListTrips)
		r.Post("/trips", s.CreateTrip)
		r.Route("/trips/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/itinerary", s.GetItinerary)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireXHR)
				r.Get("/stops", s.ListStops)
				r.Post("/stops", s.CreateStop)
				r.Put("/stops/{stopId}", s.UpdateStop)
				r.Delete("/stops/{stopId}", s.DeleteStop)
			})
		})

		r.Get("/export", s.GetExport)
	})
}

// Handler returns the API routes as a standalone http.Handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
