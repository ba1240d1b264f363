package service

import (
	"path/filepath"
	"slices"
	"testing"

	perr "dvf/internal/platform/errors"
)

func TestPlanVintages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   []string
		want []string
		err  bool
	}{
		{name: "sorted newest first", in: []string{"2014", "2018", "2016"}, want: []string{"2018", "2016", "2014"}},
		{name: "deduplicated", in: []string{"2017", " 2017", "2015"}, want: []string{"2017", "2015"}},
		{name: "defaults", in: DefaultVintages, want: []string{"2018", "2017", "2016", "2015", "2014"}},
		{name: "empty", in: nil, err: true},
		{name: "not a year", in: []string{"2018", "18"}, err: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PlanVintages(tc.in)
			if tc.err {
				if !perr.IsCode(err, perr.ErrorCodeValidation) {
					t.Fatalf("want validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPlanVintages_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	in := []string{"2014", "2018"}
	_, _ = PlanVintages(in)
	if in[0] != "2014" {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	if got, want := CommunePath("dist", "2018", "2A", "2A004"), filepath.Join("dist", "2018", "communes", "2A", "2A004.csv"); got != want {
		t.Fatalf("CommunePath = %q, want %q", got, want)
	}
	if got, want := DepartementPath("dist", "2018", "971"), filepath.Join("dist", "2018", "departements", "971.csv.gz"); got != want {
		t.Fatalf("DepartementPath = %q, want %q", got, want)
	}
	if got, want := FullPath("dist", "2018"), filepath.Join("dist", "2018", "full.csv.gz"); got != want {
		t.Fatalf("FullPath = %q, want %q", got, want)
	}
}
