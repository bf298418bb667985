package distance

import (
	"math"

	"marketplace/internal/entities"
)

const (
	earthRadiusKm     = 6371.0
	DefaultDistanceKm = 10.0
)

type Estimator struct {
	defaultKm float64
}

func New(defaultKm float64) *Estimator {
	if defaultKm <= 0 {
		defaultKm = DefaultDistanceKm
	}
	return &Estimator{
		defaultKm: defaultKm,
	}
}

// EstimateKm возвращает расстояние по прямой между точками забора и вручения,
// округленное до 0.1 км. Без координат возвращается значение по умолчанию.
func (e *Estimator) EstimateKm(route entities.Route) float64 {
	if route.Pickup == nil || route.Dropoff == nil {
		return e.defaultKm
	}
	return math.Round(Haversine(*route.Pickup, *route.Dropoff)*10) / 10
}

func Haversine(from, to entities.Coordinate) float64 {
	lat1 := toRadians(from.Lat)
	lat2 := toRadians(to.Lat)
	dLat := toRadians(to.Lat - from.Lat)
	dLng := toRadians(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
