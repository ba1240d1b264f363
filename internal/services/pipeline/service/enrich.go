package service

import (
	"dvf/internal/core/dvf"
	"dvf/internal/core/geo"
	"dvf/internal/services/pipeline/domain"
)

// Enrich locates every row whose parcel has a geometry with the parcel
// centroid rounded to 6 decimals. Rows already located are left untouched,
// so calling it twice is a no-op. Returns the number of rows located.
func Enrich(rows []*dvf.Row, parcels domain.Parcels) int {
	if len(parcels) == 0 {
		return 0
	}
	located := 0
	for _, r := range rows {
		g, ok := parcels.Geometry(r.IDParcelle())
		if !ok {
			continue
		}
		x, y, ok := geo.Centroid(g)
		if !ok {
			continue
		}
		if r.Locate(dvf.Coordinates{Lon: geo.Round6(x), Lat: geo.Round6(y)}) {
			located++
		}
	}
	return located
}
