package hash

import (
	"github.com/spaolacci/murmur3"
)

var murmur3Instance = &Murmur3Hash{}

// Murmur3Hash is the x86 32-bit MurmurHash3.
type Murmur3Hash struct{}

func (Murmur3Hash) Hash(data []byte, length int, seed int32) int32 {
	return int32(murmur3.Sum32WithSeed(data[:length], uint32(seed)))
}
