package metadata

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// idLength is the fixed length of file ids: a 64-bit hash rendered in base36
// occupies at most 13 digits.
const idLength = 13

// ID derives the deterministic file id for a relative path. The id is the
// xxh3 hash of the path encoded in base36 (lowercase letters and digits),
// left-padded to a fixed length. It is a pure function of the path string:
// no salt, stable across process restarts.
//
// The hash is not collision-proof; two distinct paths colliding is an
// accepted rare risk.
func ID(relPath string) string {
	sum := xxh3.HashString(relPath)
	enc := strconv.FormatUint(sum, 36)
	if len(enc) >= idLength {
		return enc
	}
	pad := make([]byte, idLength-len(enc))
	for i := range pad {
		pad[i] = '0'
	}
	return string(pad) + enc
}
