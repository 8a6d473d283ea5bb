package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given label text. The categorical level
// pool uses it to index level strings without holding a second copy of each
// string as a map key.
func ID(label string) uint64 {
	return xxhash.Sum64String(label)
}
