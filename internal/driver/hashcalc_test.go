package driver_test

import (
	"testing"

	"ionc/internal/backend/cgen"
	"ionc/internal/driver"
	"ionc/internal/snapshot"
)

func TestCacheKeyDependsOnSnapshotAndOptions(t *testing.T) {
	a := snapshot.Sum([]byte("a"))
	b := snapshot.Sum([]byte("b"))

	base := driver.CacheKey(a, cgen.Options{})
	if base != driver.CacheKey(a, cgen.Options{}) {
		t.Fatal("key must be deterministic")
	}
	if base == driver.CacheKey(b, cgen.Options{}) {
		t.Fatal("key must change with the snapshot")
	}
	seen := map[string]bool{base.String(): true}
	for _, opts := range []cgen.Options{
		{NoLineSync: true},
		{FullGen: true},
		{NoTypeInfo: true},
		{NoLineSync: true, FullGen: true, NoTypeInfo: true},
	} {
		k := driver.CacheKey(a, opts).String()
		if seen[k] {
			t.Fatalf("options %+v collide with an earlier key", opts)
		}
		seen[k] = true
	}
}
