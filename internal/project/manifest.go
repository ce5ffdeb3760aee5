package project

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ionc/internal/diag"
	"ionc/internal/source"
)

const noManifestMessage = "no ionc.toml found\nplease pass the snapshot explicitly, e.g.:\n  ionc gen path/to/program.snap"

// ErrNoManifest is returned by LoadManifest when no ionc.toml exists above
// the start directory.
var ErrNoManifest = errors.New(noManifestMessage)

// GenConfig mirrors the generator switches.
type GenConfig struct {
	NoLineSync bool `toml:"nolinesync"`
	FullGen    bool `toml:"fullgen"`
	NoTypeInfo bool `toml:"notypeinfo"`
}

// CacheConfig controls the output cache. Dir is relative to the project
// root; an empty Dir selects the user cache directory.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// BuildConfig controls batch builds. Jobs <= 0 means GOMAXPROCS.
type BuildConfig struct {
	Jobs int `toml:"jobs"`
}

// UnitConfig is one snapshot to translate.
type UnitConfig struct {
	Name   string `toml:"name"`
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

// Config is the decoded ionc.toml.
type Config struct {
	Gen   GenConfig    `toml:"gen"`
	Cache CacheConfig  `toml:"cache"`
	Build BuildConfig  `toml:"build"`
	Units []UnitConfig `toml:"unit"`
}

// Manifest is a located and validated ionc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Unit is a manifest unit with absolute paths.
type Unit struct {
	Name   string
	Input  string
	Output string
}

// LoadManifest finds ionc.toml upward from startDir and decodes it.
func LoadManifest(startDir string) (*Manifest, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, nil
}

// LoadConfig decodes and validates the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, diag.Wrap(diag.ProjManifestInvalid, source.NoPos, err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, diag.Errorf(diag.ProjManifestInvalid, source.NoPos, "%s: unknown key %s", path, undecoded[0])
	}
	// кеш включён, пока явно не выключен
	if !meta.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = true
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, diag.Errorf(diag.ProjManifestInvalid, source.NoPos, "%s: [build].jobs must not be negative", path)
	}
	seen := make(map[string]int, len(cfg.Units))
	outputs := make(map[string]int, len(cfg.Units))
	for i := range cfg.Units {
		u := &cfg.Units[i]
		if strings.TrimSpace(u.Input) == "" {
			return Config{}, diag.Errorf(diag.ProjUnitMissingInput, source.NoPos, "%s: [[unit]] #%d: missing input", path, i+1)
		}
		if u.Name == "" {
			u.Name = strings.TrimSuffix(filepath.Base(u.Input), filepath.Ext(u.Input))
		}
		if u.Output == "" {
			u.Output = strings.TrimSuffix(u.Input, filepath.Ext(u.Input)) + ".c"
		}
		if prev, dup := seen[u.Name]; dup {
			return Config{}, diag.Errorf(diag.ProjManifestInvalid, source.NoPos, "%s: [[unit]] #%d: name %q already used by unit #%d", path, i+1, u.Name, prev)
		}
		seen[u.Name] = i + 1
		out := filepath.Clean(filepath.FromSlash(u.Output))
		if prev, dup := outputs[out]; dup {
			return Config{}, diag.Errorf(diag.ProjDuplicateOutput, source.NoPos, "%s: [[unit]] #%d: output %s already written by unit #%d", path, i+1, u.Output, prev)
		}
		outputs[out] = i + 1
	}
	return cfg, nil
}

// Units resolves unit paths against the project root.
func (m *Manifest) Units() []Unit {
	if m == nil {
		return nil
	}
	out := make([]Unit, 0, len(m.Config.Units))
	for _, u := range m.Config.Units {
		out = append(out, Unit{
			Name:   u.Name,
			Input:  m.resolve(u.Input),
			Output: m.resolve(u.Output),
		})
	}
	return out
}

// CacheDir returns the configured cache directory, or "" for the default.
func (m *Manifest) CacheDir() string {
	if m == nil || m.Config.Cache.Dir == "" {
		return ""
	}
	return m.resolve(m.Config.Cache.Dir)
}

func (m *Manifest) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Root, p)
}
