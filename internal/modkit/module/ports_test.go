package module

import (
	"testing"

	kit "dvf/internal/platform/testkit"
)

type runner interface{ Run() string }

type runnerImpl struct{}

func (runnerImpl) Run() string { return "ran" }

type portSet struct {
	Name   string
	Runner runner
	hidden runner
}

type stub struct{ ports any }

func (s stub) Ports() any   { return s.ports }
func (s stub) Name() string { return "stub" }

func TestPortsOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{name: "direct", ports: runnerImpl{}, ok: true},
		{name: "struct field", ports: portSet{Name: "pipeline", Runner: runnerImpl{}}, ok: true},
		{name: "unexported field ignored", ports: portSet{hidden: runnerImpl{}}},
		{name: "pointer bundle", ports: &portSet{Runner: runnerImpl{}}, ok: true},
		{name: "nil field skipped", ports: portSet{Name: "pipeline"}},
		{name: "nil pointer bundle", ports: (*portSet)(nil)},
		{name: "nil ports", ports: nil},
		{name: "primitive", ports: 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, ok := PortsOf[runner](stub{ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && r.Run() != "ran" {
				t.Fatalf("wrong port returned")
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	if got := MustPortsOf[runner](stub{ports: portSet{Runner: runnerImpl{}}}).Run(); got != "ran" {
		t.Fatalf("got %q", got)
	}
	kit.MustPanic(t, func() { MustPortsOf[runner](stub{}) })
}
