package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/repo"
)

// Reference constants for the derived statistics.
const (
	earthCircumferenceKm = 40075
	moonDistanceKm       = 384400
	avgFlightSpeedKmh    = 800
	walkingSpeedKmh      = 5
)

// StatsService computes descriptive statistics over the full stored journey
// collection. It has no error conditions beyond storage failures: empty input
// yields zero totals, empty slices, and nil records.
type StatsService struct {
	journeys repo.FlightRepo
}

// NewStatsService constructs a StatsService backed by the provided FlightRepo.
func NewStatsService(journeys repo.FlightRepo) *StatsService {
	return &StatsService{journeys: journeys}
}

// GetStats loads every journey (with legs and airports resolved) and
// aggregates the statistics structure. Two calls with no intervening writes
// return identical results.
func (s *StatsService) GetStats(ctx context.Context) (domain.FlightStats, error) {
	journeys, err := s.journeys.ListJourneys(ctx)
	if err != nil {
		return domain.FlightStats{}, fmt.Errorf("service.StatsService.GetStats: %w", err)
	}
	return ComputeStats(journeys), nil
}

// ComputeStats aggregates statistics over materialized journeys.
// Exported separately from GetStats because it is pure: tests feed it
// fixtures without any storage.
func ComputeStats(journeys []domain.FlightJourney) domain.FlightStats {
	allLegs := []domain.FlightLeg{}
	for _, j := range journeys {
		allLegs = append(allLegs, j.Legs...)
	}

	var totalDistance float64
	for _, leg := range allLegs {
		totalDistance += leg.DistanceKm
	}

	byYear := statsByYear(journeys)
	byMonth := statsByMonth(journeys)

	geoStats := geographicStats(allLegs)

	return domain.FlightStats{
		TotalFlights:    len(allLegs),
		TotalJourneys:   len(journeys),
		TotalDistanceKm: domain.Round2(totalDistance),

		ByYear:         byYear,
		ByMonth:        byMonth,
		StrongestYear:  strongestYear(byYear),
		StrongestMonth: strongestMonth(byMonth),

		LongestFlight:       longestFlight(allLegs),
		ShortestFlight:      shortestFlight(allLegs),
		MostVisitedAirports: mostVisitedAirports(allLegs),
		MostCommonRoutes:    mostCommonRoutes(allLegs),

		UniqueAirports:   geoStats.uniqueAirports,
		UniqueCountries:  geoStats.uniqueCountries,
		CountriesVisited: geoStats.countriesVisited,

		EarthCircumferences:  domain.Round2(totalDistance / earthCircumferenceKm),
		MoonDistancePercent:  domain.Round2(totalDistance / moonDistanceKm * 100),
		EstimatedFlightHours: domain.Round1(totalDistance / avgFlightSpeedKmh),
		WalkingYears:         domain.Round2(totalDistance / (walkingSpeedKmh * 24 * 365)),
	}
}

// statsByYear buckets dated journeys by calendar year, most recent year first.
// Undated journeys are excluded.
func statsByYear(journeys []domain.FlightJourney) []domain.YearStats {
	totals := map[int]*domain.YearStats{}
	years := []int{}

	for _, j := range journeys {
		if j.JourneyDate == nil {
			continue
		}
		year := j.JourneyDate.Year()
		bucket, ok := totals[year]
		if !ok {
			bucket = &domain.YearStats{Year: year}
			totals[year] = bucket
			years = append(years, year)
		}
		bucket.Flights += len(j.Legs)
		for _, leg := range j.Legs {
			bucket.DistanceKm += leg.DistanceKm
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	result := []domain.YearStats{}
	for _, year := range years {
		bucket := *totals[year]
		bucket.DistanceKm = domain.Round2(bucket.DistanceKm)
		result = append(result, bucket)
	}
	return result
}

// statsByMonth buckets dated journeys by (year, month), sorted by year
// descending then month descending.
func statsByMonth(journeys []domain.FlightJourney) []domain.MonthStats {
	type key struct{ year, month int }
	totals := map[key]*domain.MonthStats{}
	keys := []key{}

	for _, j := range journeys {
		if j.JourneyDate == nil {
			continue
		}
		k := key{year: j.JourneyDate.Year(), month: int(j.JourneyDate.Month())}
		bucket, ok := totals[k]
		if !ok {
			bucket = &domain.MonthStats{Year: k.year, Month: k.month}
			totals[k] = bucket
			keys = append(keys, k)
		}
		bucket.Flights += len(j.Legs)
		for _, leg := range j.Legs {
			bucket.DistanceKm += leg.DistanceKm
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year > keys[j].year
		}
		return keys[i].month > keys[j].month
	})

	result := []domain.MonthStats{}
	for _, k := range keys {
		bucket := *totals[k]
		bucket.DistanceKm = domain.Round2(bucket.DistanceKm)
		result = append(result, bucket)
	}
	return result
}

// strongestYear returns the year bucket with the maximal distance via a
// linear reduce: on ties the earlier element of byYear wins. byYear is
// sorted by year descending, so that semantic is observable and kept.
func strongestYear(byYear []domain.YearStats) *domain.YearStats {
	if len(byYear) == 0 {
		return nil
	}
	max := byYear[0]
	for _, y := range byYear[1:] {
		if y.DistanceKm > max.DistanceKm {
			max = y
		}
	}
	return &max
}

// strongestMonth mirrors strongestYear over the month buckets.
func strongestMonth(byMonth []domain.MonthStats) *domain.MonthStats {
	if len(byMonth) == 0 {
		return nil
	}
	max := byMonth[0]
	for _, m := range byMonth[1:] {
		if m.DistanceKm > max.DistanceKm {
			max = m
		}
	}
	return &max
}

// longestFlight returns the leg with the maximal distance; first encountered
// wins on ties.
func longestFlight(legs []domain.FlightLeg) *domain.FlightRecord {
	if len(legs) == 0 {
		return nil
	}
	longest := legs[0]
	for _, leg := range legs[1:] {
		if leg.DistanceKm > longest.DistanceKm {
			longest = leg
		}
	}
	return legRecord(longest)
}

// shortestFlight returns the leg with the minimal distance; first encountered
// wins on ties.
func shortestFlight(legs []domain.FlightLeg) *domain.FlightRecord {
	if len(legs) == 0 {
		return nil
	}
	shortest := legs[0]
	for _, leg := range legs[1:] {
		if leg.DistanceKm < shortest.DistanceKm {
			shortest = leg
		}
	}
	return legRecord(shortest)
}

func legRecord(leg domain.FlightLeg) *domain.FlightRecord {
	return &domain.FlightRecord{
		DepartureIata: leg.DepartureAirport.IataCode,
		DepartureCity: leg.DepartureAirport.City,
		ArrivalIata:   leg.ArrivalAirport.IataCode,
		ArrivalCity:   leg.ArrivalAirport.City,
		DistanceKm:    domain.Round2(leg.DistanceKm),
	}
}

// mostVisitedAirports counts departure and arrival occurrences independently
// and returns the top 10 by count. The sort is stable over discovery order,
// so tied airports rank in the order they were first seen.
func mostVisitedAirports(legs []domain.FlightLeg) []domain.AirportVisitCount {
	counts := map[int64]*domain.AirportVisitCount{}
	order := []int64{}

	count := func(a domain.Airport) {
		existing, ok := counts[a.ID]
		if ok {
			existing.VisitCount++
			return
		}
		counts[a.ID] = &domain.AirportVisitCount{
			AirportID:  a.ID,
			IataCode:   a.IataCode,
			Name:       a.Name,
			City:       a.City,
			Country:    a.Country,
			VisitCount: 1,
		}
		order = append(order, a.ID)
	}

	for _, leg := range legs {
		count(leg.DepartureAirport)
		count(leg.ArrivalAirport)
	}

	result := make([]domain.AirportVisitCount, 0, len(order))
	for _, id := range order {
		result = append(result, *counts[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].VisitCount > result[j].VisitCount
	})
	if len(result) > 10 {
		result = result[:10]
	}
	return result
}

// mostCommonRoutes groups legs by unordered airport pair — A→B and B→A are
// the same route — and returns the top 10 by count. The From/To direction is
// taken from the first leg seen for the pair; the representative distance is
// refreshed from the most recently seen leg.
func mostCommonRoutes(legs []domain.FlightLeg) []domain.RouteCount {
	type pair struct{ lo, hi int64 }
	counts := map[pair]*domain.RouteCount{}
	order := []pair{}

	for _, leg := range legs {
		k := pair{lo: leg.DepartureAirport.ID, hi: leg.ArrivalAirport.ID}
		if k.lo > k.hi {
			k.lo, k.hi = k.hi, k.lo
		}

		existing, ok := counts[k]
		if ok {
			existing.Count++
			existing.DistanceKm = domain.Round2(leg.DistanceKm)
			continue
		}
		counts[k] = &domain.RouteCount{
			FromAirportID: leg.DepartureAirport.ID,
			FromIataCode:  leg.DepartureAirport.IataCode,
			FromCity:      leg.DepartureAirport.City,
			ToAirportID:   leg.ArrivalAirport.ID,
			ToIataCode:    leg.ArrivalAirport.IataCode,
			ToCity:        leg.ArrivalAirport.City,
			Count:         1,
			DistanceKm:    domain.Round2(leg.DistanceKm),
		}
		order = append(order, k)
	}

	result := make([]domain.RouteCount, 0, len(order))
	for _, k := range order {
		result = append(result, *counts[k])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if len(result) > 10 {
		result = result[:10]
	}
	return result
}

type geoCoverage struct {
	uniqueAirports   int
	uniqueCountries  int
	countriesVisited []string
}

// geographicStats counts distinct airports and countries touched by any leg
// and lists the country names alphabetically.
func geographicStats(legs []domain.FlightLeg) geoCoverage {
	airportIDs := map[int64]bool{}
	countries := map[string]bool{}

	for _, leg := range legs {
		airportIDs[leg.DepartureAirport.ID] = true
		airportIDs[leg.ArrivalAirport.ID] = true
		if leg.DepartureAirport.Country != "" {
			countries[leg.DepartureAirport.Country] = true
		}
		if leg.ArrivalAirport.Country != "" {
			countries[leg.ArrivalAirport.Country] = true
		}
	}

	names := make([]string, 0, len(countries))
	for name := range countries {
		names = append(names, name)
	}
	sort.Strings(names)

	return geoCoverage{
		uniqueAirports:   len(airportIDs),
		uniqueCountries:  len(countries),
		countriesVisited: names,
	}
}
