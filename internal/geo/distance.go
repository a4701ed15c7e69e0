// Package geo provides great-circle distance calculation between
// geographic points on a spherical-earth model.
package geo

import (
	"math"

	"github.com/tmarkov/travelmap/internal/domain"
)

// earthRadiusKm is the mean radius of the spherical-earth model.
const earthRadiusKm = 6371

// Distance returns the great-circle distance in kilometers between two
// points given in decimal degrees, computed with the haversine formula and
// rounded to two decimal places.
//
// The function is deterministic and has no error conditions for in-range
// input. It does not validate coordinate ranges — callers must guard
// against missing coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return domain.Round2(earthRadiusKm * c)
}

// AirportDistance returns the distance between two airports' coordinates.
func AirportDistance(departure, arrival domain.Airport) float64 {
	return Distance(departure.Latitude, departure.Longitude, arrival.Latitude, arrival.Longitude)
}

func radians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
