package hash

import "math/bits"

var jenkinsInstance = &JenkinsHash{}

// JenkinsHash is Bob Jenkins' lookup3 hashlittle, reading the key as
// little-endian 32-bit words.
type JenkinsHash struct{}

func (JenkinsHash) Hash(key []byte, length int, seed int32) int32 {
	a := 0xdeadbeef + uint32(length) + uint32(seed)
	b, c := a, a

	off := 0
	for ; length > 12; off, length = off+12, length-12 {
		a += le32(key[off:])
		b += le32(key[off+4:])
		c += le32(key[off+8:])

		// mix
		a -= c
		a ^= bits.RotateLeft32(c, 4)
		c += b
		b -= a
		b ^= bits.RotateLeft32(a, 6)
		a += c
		c -= b
		c ^= bits.RotateLeft32(b, 8)
		b += a
		a -= c
		a ^= bits.RotateLeft32(c, 16)
		c += b
		b -= a
		b ^= bits.RotateLeft32(a, 19)
		a += c
		c -= b
		c ^= bits.RotateLeft32(b, 4)
		b += a
	}

	if length == 0 {
		return int32(c)
	}

	// last block, zero padded: affects all 32 bits of c
	for i := 0; i < length; i++ {
		v := uint32(key[off+i]) << (8 * uint(i%4))
		switch {
		case i < 4:
			a += v
		case i < 8:
			b += v
		default:
			c += v
		}
	}

	// final
	c ^= b
	c -= bits.RotateLeft32(b, 14)
	a ^= c
	a -= bits.RotateLeft32(c, 11)
	b ^= a
	b -= bits.RotateLeft32(a, 25)
	c ^= b
	c -= bits.RotateLeft32(b, 16)
	a ^= c
	a -= bits.RotateLeft32(c, 4)
	b ^= a
	b -= bits.RotateLeft32(a, 14)
	c ^= b
	c -= bits.RotateLeft32(b, 24)
	return int32(c)
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
