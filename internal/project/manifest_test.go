package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ionc/internal/diag"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifestFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[gen]
nolinesync = true

[build]
jobs = 3

[[unit]]
input = "build/app.snap"

[[unit]]
name = "tools"
input = "build/tools.snap"
output = "out/tools.c"
`)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(nested)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	if !m.Config.Gen.NoLineSync || m.Config.Gen.FullGen {
		t.Fatalf("gen = %+v", m.Config.Gen)
	}
	if !m.Config.Cache.Enabled {
		t.Fatal("cache must default to enabled")
	}
	if m.Config.Build.Jobs != 3 {
		t.Fatalf("jobs = %d", m.Config.Build.Jobs)
	}
	units := m.Units()
	if len(units) != 2 {
		t.Fatalf("units = %+v", units)
	}
	if units[0].Name != "app" || units[0].Output != filepath.Join(root, "build", "app.c") {
		t.Fatalf("defaults not applied: %+v", units[0])
	}
	if units[1].Output != filepath.Join(root, "out", "tools.c") {
		t.Fatalf("output = %q", units[1].Output)
	}
	if m.CacheDir() != "" {
		t.Fatalf("cache dir = %q, want default", m.CacheDir())
	}
}

func TestCacheSection(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[cache]\nenabled = false\ndir = \".cache\"\n")
	m, err := LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if m.Config.Cache.Enabled {
		t.Fatal("explicit enabled = false ignored")
	}
	if m.CacheDir() != filepath.Join(root, ".cache") {
		t.Fatalf("cache dir = %q", m.CacheDir())
	}
}

func TestManifestErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[gen\n", "failed to parse TOML"},
		{"unknown key", "[gen]\nfast = true\n", "unknown key gen.fast"},
		{"missing input", "[[unit]]\noutput = \"a.c\"\n", "missing input"},
		{"negative jobs", "[build]\njobs = -1\n", "must not be negative"},
		{"duplicate name", "[[unit]]\ninput = \"a.snap\"\n[[unit]]\ninput = \"x/a.snap\"\n", "already used"},
		{"duplicate output", "[[unit]]\ninput = \"a.snap\"\noutput = \"o.c\"\n[[unit]]\ninput = \"b.snap\"\noutput = \"./o.c\"\n", "already written"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.body)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
			if diag.CodeOf(err) == diag.UnknownCode {
				t.Fatalf("err %v carries no diagnostic code", err)
			}
		})
	}
}

func TestNoManifest(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := FindManifest(dir); ok || err != nil {
		// a stray ionc.toml above the temp dir would make this meaningless
		t.Skipf("manifest found above %s", dir)
	}
	if _, err := LoadManifest(dir); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("err = %v, want ErrNoManifest", err)
	}
}

func TestCombineDependsOnOrder(t *testing.T) {
	a, b := Sum([]byte("a")), Sum([]byte("b"))
	base := Sum([]byte("snap"))
	if Combine(base, a, b) == Combine(base, b, a) {
		t.Fatal("part order must matter")
	}
	if Combine(base, a) != Combine(base, a) {
		t.Fatal("combine must be deterministic")
	}
}
