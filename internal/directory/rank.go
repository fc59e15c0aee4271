package directory

import (
	"sort"

	"directory.fixr.org/internal/geo"
)

// RankByProximity orders records by great-circle distance from origin,
// closest first. Each returned record carries a freshly computed Distance;
// ties keep their relative input order. With a nil origin the pass is an
// identity: input order preserved, no Distance populated.
//
// The input slice is not mutated; ranking works on copies because Distance
// is per-pass state, never part of the canonical record.
func RankByProximity(records []Record, origin *geo.Point) []Record {
	ranked := append([]Record(nil), records...)
	if origin == nil {
		return ranked
	}

	for i := range ranked {
		d := geo.HaversineDistance(*origin, ranked[i].Location)
		ranked[i].Distance = &d
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Distance < *ranked[j].Distance
	})
	return ranked
}
