package validate

import (
	"testing"

	perr "dvf/internal/platform/errors"
	kit "dvf/internal/platform/testkit"
)

type opts struct {
	Vintages []string `flag:"vintages" validate:"required,min=1,dive,vintage"`
	Workers  int      `flag:"workers" validate:"min=1,max=64"`
	DataDir  string   `flag:"data-dir" validate:"required"`
}

func TestStruct_OK(t *testing.T) {
	t.Parallel()
	if err := Struct(opts{Vintages: []string{"2018", "2017"}, Workers: 8, DataDir: "data"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_Failures(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		in        opts
		wantField string
		wantMsg   string
	}{
		{"workers below min", opts{Vintages: []string{"2018"}, Workers: 0, DataDir: "d"}, "workers", "workers must be at least 1"},
		{"workers above max", opts{Vintages: []string{"2018"}, Workers: 65, DataDir: "d"}, "workers", "workers must be at most 64"},
		{"bad vintage", opts{Vintages: []string{"18"}, Workers: 1, DataDir: "d"}, "vintages[0]", "must be a four digit year"},
		{"missing data dir", opts{Vintages: []string{"2018"}, Workers: 1}, "data-dir", "data-dir"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Struct(c.in)
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
			e, _ := perr.As(err)
			if e.Field() != c.wantField {
				t.Fatalf("field = %q, want %q", e.Field(), c.wantField)
			}
			kit.MustContain(t, err.Error(), c.wantMsg)
		})
	}
}

func TestIsVintage(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]bool{
		"2018": true, "1999": true, "218": false, "20a8": false, "3018": false, "": false,
	} {
		if got := IsVintage(in); got != want {
			t.Fatalf("IsVintage(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFieldAndMessage_Nil(t *testing.T) {
	t.Parallel()
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil err should give empty field/message")
	}
}
