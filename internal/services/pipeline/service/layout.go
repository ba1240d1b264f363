package service

import (
	"path/filepath"
	"slices"
	"strings"

	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/validate"
)

// DefaultVintages is the run order used when none is configured
var DefaultVintages = []string{"2018", "2017", "2016", "2015", "2014"}

// File kinds, used as the metrics label
const (
	KindCommune     = "commune"
	KindDepartement = "departement"
	KindFull        = "full"
)

// CommunePath is <dist>/<vintage>/communes/<dep>/<commune>.csv
func CommunePath(dist, vintage, dep, commune string) string {
	return filepath.Join(dist, vintage, "communes", dep, commune+".csv")
}

// DepartementPath is <dist>/<vintage>/departements/<dep>.csv.gz
func DepartementPath(dist, vintage, dep string) string {
	return filepath.Join(dist, vintage, "departements", dep+".csv.gz")
}

// FullPath is <dist>/<vintage>/full.csv.gz
func FullPath(dist, vintage string) string {
	return filepath.Join(dist, vintage, "full.csv.gz")
}

// PlanVintages trims, validates and deduplicates vs, newest first
func PlanVintages(vs []string) ([]string, error) {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		v = strings.TrimSpace(v)
		if !validate.IsVintage(v) {
			return nil, perr.WithField(perr.Validationf("invalid vintage %q", v), "vintages")
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, perr.WithField(perr.Validationf("no vintage to process"), "vintages")
	}
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out, nil
}
