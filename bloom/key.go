package bloom

import (
	"bytes"
	"fmt"
)

// keyHashSeed is mixed into every key hash code; a key's weight never is.
const keyHashSeed = 0x3ff00000

// Key is an immutable byte payload carrying a mutable weight.
// Equality, ordering and hash code only consider the payload.
type Key struct {
	bytes  []byte
	weight float64
}

func NewKey(b []byte) (*Key, error) {
	return NewKeyWithWeight(b, 1.0)
}

func NewKeyWithWeight(b []byte, weight float64) (*Key, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: key bytes can not be nil", ErrInvalidArgument)
	}
	return &Key{bytes: bytes.Clone(b), weight: weight}, nil
}

// NewStringKey builds a key over the UTF-8 encoding of s.
func NewStringKey(s string) *Key {
	return &Key{bytes: []byte(s), weight: 1.0}
}

// Bytes returns the payload. Callers must not modify it.
// Constructors copy their input, so later changes to the caller's buffer are not seen.
func (k *Key) Bytes() []byte {
	return k.bytes
}

func (k *Key) Weight() float64 {
	return k.weight
}

func (k *Key) IncrementWeight(delta float64) {
	k.weight += delta
}

// Increment adds one to the weight.
func (k *Key) Increment() {
	k.IncrementWeight(1.0)
}

func (k *Key) Equal(other *Key) bool {
	if k == nil || other == nil {
		return k == other
	}
	return bytes.Equal(k.bytes, other.bytes)
}

// HashCode xors every (signed) payload byte into a fixed seed.
func (k *Key) HashCode() int32 {
	result := int32(keyHashSeed)
	for _, b := range k.bytes {
		result ^= int32(int8(b))
	}
	return result
}

// Compare orders keys lexicographically by payload.
func (k *Key) Compare(other *Key) int {
	return bytes.Compare(k.bytes, other.bytes)
}

func (k *Key) String() string {
	return fmt.Sprintf("%q(%g)", k.bytes, k.weight)
}
