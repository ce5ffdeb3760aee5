// Package snapshot stores a resolved program model on disk so the C back
// end can run separately from the front end that produced it.
package snapshot

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/source"
	"ionc/internal/types"
)

// Magic opens every snapshot file.
const Magic = "IONSNAP"

// Version is the current schema version. Bump it when hir or types change
// their encoded shape.
const Version uint16 = 1

// Digest identifies snapshot content (sha256 of the encoded bytes).
type Digest [32]byte

type header struct {
	Magic   string
	Version uint16
}

// file is the on-disk layout after the header.
type file struct {
	Program *hir.Program
	Types   types.Table
}

// Encode writes prog with its type table to w.
func Encode(w io.Writer, prog *hir.Program) error {
	if prog == nil || prog.Types == nil {
		return fmt.Errorf("snapshot: program without type table")
	}
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(header{Magic: Magic, Version: Version}); err != nil {
		return err
	}
	return enc.Encode(file{Program: prog, Types: prog.Types.Export()})
}

// Marshal is Encode into memory.
func Marshal(prog *hir.Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, prog); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a snapshot and rebuilds the type interner.
func Decode(r io.Reader) (*hir.Program, error) {
	dec := msgpack.NewDecoder(r)
	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, diag.Wrap(diag.IOSnapshotFormat, source.NoPos, err, "unreadable snapshot header")
	}
	if h.Magic != Magic {
		return nil, diag.Errorf(diag.IOSnapshotFormat, source.NoPos, "not a program snapshot (magic %q)", h.Magic)
	}
	if h.Version != Version {
		return nil, diag.Errorf(diag.IOSnapshotVersion, source.NoPos,
			"snapshot version %d, this build reads version %d", h.Version, Version)
	}
	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, diag.Wrap(diag.IOSnapshotFormat, source.NoPos, err, "malformed snapshot body")
	}
	if f.Program == nil {
		return nil, diag.Errorf(diag.IOSnapshotFormat, source.NoPos, "snapshot has no program")
	}
	in, err := types.FromTable(f.Types)
	if err != nil {
		return nil, diag.Wrap(diag.IOSnapshotFormat, source.NoPos, err, "malformed type table")
	}
	prog := f.Program
	prog.Types = in
	if prog.TypeReach == nil {
		prog.TypeReach = make(map[types.TypeID]hir.Reachability)
	}
	if prog.Target.IsZero() {
		return nil, diag.Errorf(diag.IOSnapshotFormat, source.NoPos, "snapshot has no target description")
	}
	return prog, nil
}

// Unmarshal is Decode from memory.
func Unmarshal(data []byte) (*hir.Program, error) {
	return Decode(bytes.NewReader(data))
}

// Sum hashes encoded snapshot bytes.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// Load reads and decodes the snapshot at path. The returned digest covers
// the raw file bytes.
func Load(path string) (*hir.Program, Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, diag.Wrap(diag.IOLoadFileError, source.NoPos, err, "failed to read snapshot %s", path)
	}
	prog, err := Unmarshal(data)
	if err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			de.Message = path + ": " + de.Message
		}
		return nil, Digest{}, err
	}
	return prog, Sum(data), nil
}

// Save writes prog to path through a temp file and a rename, so readers
// never observe a half-written snapshot.
func Save(path string, prog *hir.Program) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to create %s", dir)
	}
	f, err := os.CreateTemp(dir, ".snap-*")
	if err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to create temp snapshot")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	bw := bufio.NewWriter(f)
	if err = Encode(bw, prog); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to write %s", path)
	}
	if err = f.Close(); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to write %s", path)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to write %s", path)
	}
	return nil
}
