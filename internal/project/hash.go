package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с snapshot.Digest)
type Digest [32]byte

// Combine строит ключ: H( content || part1 || part2 ... ).
// Порядок частей должен быть детерминированным.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Sum hashes arbitrary bytes.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// String renders the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
