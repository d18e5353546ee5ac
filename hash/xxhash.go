package hash

import (
	"github.com/cespare/xxhash/v2"
)

var xxhashInstance = &XXHash64{}

// XXHash64 folds a seeded 64-bit xxHash digest down to 32 bits.
type XXHash64 struct{}

func (XXHash64) Hash(data []byte, length int, seed int32) int32 {
	d := xxhash.NewWithSeed(uint64(uint32(seed)))
	_, _ = d.Write(data[:length])
	sum := d.Sum64()
	return int32(uint32(sum) ^ uint32(sum>>32))
}
