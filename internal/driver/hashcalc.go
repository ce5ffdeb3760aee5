package driver

import (
	"ionc/internal/backend/cgen"
	"ionc/internal/project"
	"ionc/internal/snapshot"
)

// optionsDigest covers every switch that changes generated text, plus the
// formats the cached text depends on.
func optionsDigest(opts cgen.Options) project.Digest {
	flag := func(b bool) byte {
		if b {
			return 1
		}
		return 0
	}
	return project.Sum([]byte{
		byte(outputCacheSchemaVersion >> 8), byte(outputCacheSchemaVersion),
		byte(snapshot.Version >> 8), byte(snapshot.Version),
		flag(opts.NoLineSync), flag(opts.FullGen), flag(opts.NoTypeInfo),
	})
}

// CacheKey: H(snapshot || options).
func CacheKey(snap snapshot.Digest, opts cgen.Options) project.Digest {
	return project.Combine(project.Digest(snap), optionsDigest(opts))
}
