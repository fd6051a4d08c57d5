package uniset

import (
	"encoding/binary"

	onexxhash "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash"
	"github.com/spaolacci/murmur3"
)

// payloadBytes packs a payload's two words and the seed into a 24-byte
// little-endian buffer for hashers that operate on byte slices rather than
// raw words.
func payloadBytes(a, b, seed uint64) [24]byte {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], a)
	binary.LittleEndian.PutUint64(buf[8:16], b)
	binary.LittleEndian.PutUint64(buf[16:24], seed)
	return buf
}

// XXHashFunc is a HashFunc built on github.com/cespare/xxhash, the same
// library the teacher's own byte-keyed table uses for its single hash.
func XXHashFunc(a, b, seed uint64) uint64 {
	buf := payloadBytes(a, b, seed)
	return xxhash.Sum64(buf[:])
}

// OneOfOneXXHashFunc is a HashFunc built on github.com/OneOfOne/xxhash, an
// alternate xxhash implementation present in this corpus's dependency
// surface but otherwise unused by the teacher.
func OneOfOneXXHashFunc(a, b, seed uint64) uint64 {
	buf := payloadBytes(a, b, seed)
	return onexxhash.Checksum64(buf[:])
}

// Murmur3HashFunc is a HashFunc built on github.com/spaolacci/murmur3,
// giving the custom-hash extension point a non-xxhash example instance.
func Murmur3HashFunc(a, b, seed uint64) uint64 {
	buf := payloadBytes(a, b, seed)
	return murmur3.Sum64(buf[:])
}

// WordEqualsFunc is the EqualsFunc paired with the example HashFuncs above:
// plain word equality, since none of them alter how payloads compare.
func WordEqualsFunc(a1, b1, a2, b2 uint64) bool {
	return a1 == a2 && b1 == b2
}
