package bloom

import (
	"math/bits"

	"github.com/bits-and-blooms/bitset"
)

// NewFromRedis builds a filter from a redis string bitmap (as returned by GET
// on a key written with SETBIT/BITFIELD). Bits beyond the vector size are ignored.
func NewFromRedis(s string, cfg Config) (*BloomFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// be reminded that redis numbers bits from the most significant bit of
	// each byte, while the persisted layout here is LSB-0
	size := bitsetBytes(cfg.VectorSize)
	if size > len(s) {
		size = len(s)
	}
	temp := make([]byte, size)
	for i := 0; i < size; i++ {
		temp[i] = bits.Reverse8(s[i])
	}

	b := bitset.New(uint(cfg.VectorSize))
	for byteIdx, v := range temp {
		for bit := uint(0); v != 0 && bit < 8; bit++ {
			loc := uint(byteIdx)<<3 | bit
			if v&(1<<bit) != 0 && loc < uint(cfg.VectorSize) {
				b.Set(loc)
			}
		}
	}
	return _new(cfg, b)
}

// RedisBitmap renders the bits in redis bit order, suitable for SET.
func (f *BloomFilter) RedisBitmap() []byte {
	out := make([]byte, bitsetBytes(f.cfg.VectorSize))
	packLSB0(out, f.bits)
	for i, v := range out {
		out[i] = bits.Reverse8(v)
	}
	return out
}
