package source

import (
	"path/filepath"
	"strings"
)

// normalizePath приводит путь к единому виду для кроссплатформенных диффов.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// IsSystemInclude reports whether name is an angle-bracket include (<stdio.h>).
func IsSystemInclude(name string) bool {
	return strings.HasPrefix(name, "<")
}

// IncludePath resolves an include requested from a package living in dir.
// System includes are returned verbatim; everything else is joined with dir,
// made absolute and slash-normalized.
func IncludePath(dir, name string) (string, error) {
	if IsSystemInclude(name) {
		return name, nil
	}
	joined := name
	if !filepath.IsAbs(name) {
		joined = filepath.Join(dir, name)
	}
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}
