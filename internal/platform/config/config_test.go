package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	kit "dvf/internal/platform/testkit"
)

func TestPrefix_Nests(t *testing.T) {
	c := New().Prefix("DVF_").Prefix("PIPELINE_")
	if got := c.key("WORKERS"); got != "DVF_PIPELINE_WORKERS" {
		t.Fatalf("key() = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("SERVICE_PGSQL_")
	t.Setenv("SERVICE_PGSQL_URL", "  postgres://x ")
	if got := c.MustString("URL"); got != "postgres://x" {
		t.Fatalf("MustString = %q", got)
	}
	t.Setenv("SERVICE_PGSQL_BLANK", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestScalars(t *testing.T) {
	c := New().Prefix("DVF_T_")
	t.Setenv("DVF_T_DATA_DIR", " ./data//raw/ ")
	t.Setenv("DVF_T_ENCODING", " latin1 ")
	t.Setenv("DVF_T_WORKERS", " 4 ")
	t.Setenv("DVF_T_BAD_INT", "four")
	t.Setenv("DVF_T_SINK", "true")
	t.Setenv("DVF_T_BAD_BOOL", "sometimes")
	t.Setenv("DVF_T_TIMEOUT", "150ms")
	t.Setenv("DVF_T_BAD_DUR", "soon")

	if got := c.MayPath("DATA_DIR", "data"); got != filepath.Clean("data/raw") {
		t.Fatalf("MayPath = %q", got)
	}
	if got := c.MayPath("MISSING", ""); got != "" {
		t.Fatalf("MayPath empty default = %q", got)
	}
	if got := c.MayString("ENCODING", "utf-8"); got != "latin1" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("MISSING", "utf-8"); got != "utf-8" {
		t.Fatalf("MayString default = %q", got)
	}
	if c.MayInt("WORKERS", 8) != 4 || c.MayInt("BAD_INT", 8) != 8 || c.MayInt("MISSING", 8) != 8 {
		t.Fatalf("MayInt mismatch")
	}
	if !c.MayBool("SINK", false) || c.MayBool("BAD_BOOL", false) || !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool mismatch")
	}
	if c.MayDuration("TIMEOUT", time.Second) != 150*time.Millisecond ||
		c.MayDuration("BAD_DUR", time.Minute) != time.Minute {
		t.Fatalf("MayDuration mismatch")
	}
}

func TestMayIntAtLeast(t *testing.T) {
	c := New().Prefix("DVF_T_")
	t.Setenv("DVF_T_WORKERS", "0")
	if got := c.MayIntAtLeast("WORKERS", 8, 1); got != 8 {
		t.Fatalf("below min = %d, want default", got)
	}
	t.Setenv("DVF_T_WORKERS", "3")
	if got := c.MayIntAtLeast("WORKERS", 8, 1); got != 3 {
		t.Fatalf("MayIntAtLeast = %d", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("DVF_T_")
	def := []string{"2018", "2017"}

	cases := []struct {
		env  string
		want []string
	}{
		{"", def},
		{" , ,  ,", def},
		{"2016, 2015 , ,2014,,", []string{"2016", "2015", "2014"}},
	}
	for _, tc := range cases {
		t.Setenv("DVF_T_VINTAGES", tc.env)
		if got := c.MayCSV("VINTAGES", def); !slices.Equal(got, tc.want) {
			t.Fatalf("MayCSV(%q) = %#v, want %#v", tc.env, got, tc.want)
		}
	}
}

func TestLoadDotenv_EnvWins(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pipeline.env")
	if err := os.WriteFile(p, []byte("DVF_DOTENV_A=from-file\nDVF_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DVF_DOTENV_A", "from-env")
	t.Setenv("DVF_DOTENV_B", "")
	_ = os.Unsetenv("DVF_DOTENV_B")
	t.Cleanup(func() { _ = os.Unsetenv("DVF_DOTENV_B") })

	if err := LoadDotenv(p); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if got := os.Getenv("DVF_DOTENV_A"); got != "from-env" {
		t.Fatalf("existing env should win, got %q", got)
	}
	if got := os.Getenv("DVF_DOTENV_B"); got != "from-file" {
		t.Fatalf("DVF_DOTENV_B = %q", got)
	}
}

func TestLoadDotenv_MissingFileIsIgnored(t *testing.T) {
	if err := LoadDotenv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
}
