package services

import (
	"sort"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/pkg/geo"
)

// AnnotateDistances computes the haversine distance from origin for every
// record, keeping the input order.
func AnnotateDistances(origin geo.Coordinate, records []entities.FacilityRecord) []entities.Facility {
	out := make([]entities.Facility, 0, len(records))
	for _, r := range records {
		out = append(out, entities.Facility{
			FacilityRecord: r,
			DistanceKm:     geo.Distance(origin, r.Coordinate),
		})
	}
	return out
}

// RankByDistance annotates records and orders them nearest first. Ties keep
// the provider's order.
func RankByDistance(origin geo.Coordinate, records []entities.FacilityRecord) []entities.Facility {
	ranked := AnnotateDistances(origin, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
