// Package handler implements the HTTP handlers for the Travel Map API.
// All handlers are methods on Server; methods are split into domain-specific
// files (health.go, flight.go, etc.) but share the same Server struct so they
// can access its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/service"
)

// FlightServicer defines the business operations the flight handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type FlightServicer interface {
	Create(ctx context.Context, input service.CreateFlightInput) (domain.FlightJourney, error)
	GetByID(ctx context.Context, id int64) (domain.FlightJourney, error)
	List(ctx context.Context) ([]domain.FlightJourney, error)
	Update(ctx context.Context, id int64, input service.UpdateFlightInput) (domain.FlightJourney, error)
	Delete(ctx context.Context, id int64) error
}

// StatsServicer defines the statistics operation the stats handler depends on.
type StatsServicer interface {
	GetStats(ctx context.Context) (domain.FlightStats, error)
}

// VisitServicer defines the business operations the visit handlers depend on.
type VisitServicer interface {
	Create(ctx context.Context, input service.CreateVisitInput) (domain.Visit, error)
	GetByID(ctx context.Context, id int64) (domain.Visit, error)
	List(ctx context.Context) ([]domain.Visit, error)
	Update(ctx context.Context, id int64, input service.UpdateVisitInput) (domain.Visit, error)
	Delete(ctx context.Context, id int64) error
	SetHomeCountry(ctx context.Context, countryID int64) (domain.Visit, error)
	GetHomeCountry(ctx context.Context) (domain.Visit, error)
}

// AirportServicer defines the read-only airport lookups the handlers depend on.
type AirportServicer interface {
	GetByID(ctx context.Context, id int64) (domain.Airport, error)
	GetByIata(ctx context.Context, code string) (domain.Airport, error)
	List(ctx context.Context) ([]domain.Airport, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Airport, error)
}

// CountryServicer defines the read-only country lookups the handlers depend on.
type CountryServicer interface {
	List(ctx context.Context) ([]domain.Country, error)
	GetByID(ctx context.Context, id int64) (domain.Country, error)
	GetByIso(ctx context.Context, code string) (domain.Country, error)
}

// Server holds the handler dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	flights   FlightServicer
	stats     StatsServicer
	visits    VisitServicer
	airports  AirportServicer
	countries CountryServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(flights FlightServicer, stats StatsServicer, visits VisitServicer, airports AirportServicer, countries CountryServicer) *Server {
	return &Server{
		flights:   flights,
		stats:     stats,
		visits:    visits,
		airports:  airports,
		countries: countries,
	}
}

// Routes returns a chi router with every API endpoint registered.
// Mount it at the root in main.go.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/flights", func(r chi.Router) {
		r.Get("/", s.ListFlights)
		r.Post("/", s.CreateFlight)
		// Registered before /{id} so "stats" is never parsed as an id.
		r.Get("/stats", s.GetFlightStats)
		r.Get("/{id}", s.GetFlight)
		r.Put("/{id}", s.UpdateFlight)
		r.Delete("/{id}", s.DeleteFlight)
	})

	r.Route("/visits", func(r chi.Router) {
		r.Get("/", s.ListVisits)
		r.Post("/", s.CreateVisit)
		r.Get("/home", s.GetHomeCountry)
		r.Put("/home/{countryId}", s.SetHomeCountry)
		r.Get("/{id}", s.GetVisit)
		r.Patch("/{id}", s.UpdateVisit)
		r.Delete("/{id}", s.DeleteVisit)
	})

	r.Route("/airports", func(r chi.Router) {
		r.Get("/", s.ListAirports)
		r.Get("/search", s.SearchAirports)
		r.Get("/iata/{code}", s.GetAirportByIata)
		r.Get("/{id}", s.GetAirport)
	})

	r.Route("/countries", func(r chi.Router) {
		r.Get("/", s.ListCountries)
		r.Get("/iso/{code}", s.GetCountryByIso)
		r.Get("/{id}", s.GetCountry)
	})

	return r
}

// dateFormat is the wire format for journey and visit dates; timeFormat is
// the wire format for created/updated timestamps.
const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateFormat)
	return &s
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateFormat, s)
}
