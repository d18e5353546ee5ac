package hash

var murmurInstance = &MurmurHash{}

// MurmurHash is the 32-bit MurmurHash2. Trailing bytes are sign extended
// before being mixed in, which keeps values stable with filters persisted by
// older writers.
type MurmurHash struct{}

func (MurmurHash) Hash(data []byte, length int, seed int32) int32 {
	const (
		m = 0x5bd1e995
		r = 24
	)

	h := uint32(seed) ^ uint32(length)

	len4 := length >> 2
	for i := 0; i < len4; i++ {
		k := le32(data[i<<2:])
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
	}

	if left := length - len4<<2; left != 0 {
		if left >= 3 {
			h ^= uint32(int32(int8(data[length-3])) << 16)
		}
		if left >= 2 {
			h ^= uint32(int32(int8(data[length-2])) << 8)
		}
		h ^= uint32(int32(int8(data[length-1])))
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return int32(h)
}
