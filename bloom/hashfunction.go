package bloom

import (
	"fmt"

	"github.com/strategist922/bloomfilters/hash"
)

// HashFunction derives hashCount bit positions in [0, maxValue) from a key.
//
// Position i is the configured algorithm applied to the whole key, seeded
// with position i-1 (0 for the first one), reduced modulo maxValue.
// The same key, shape and algorithm always give the same positions.
type HashFunction struct {
	maxValue  int
	hashCount int
	hashType  hash.Type
	hasher    hash.Hash
}

func NewHashFunction(maxValue, hashCount int, hashType hash.Type) (*HashFunction, error) {
	if maxValue <= 0 {
		return nil, fmt.Errorf("%w: maxValue must be > 0", ErrInvalidArgument)
	}
	if hashCount <= 0 {
		return nil, fmt.Errorf("%w: hashCount must be > 0", ErrInvalidArgument)
	}
	hasher := hash.GetInstance(hashType)
	if hasher == nil {
		return nil, fmt.Errorf("%w: unknown hash type %d", ErrInvalidArgument, int8(hashType))
	}
	return &HashFunction{
		maxValue:  maxValue,
		hashCount: hashCount,
		hashType:  hashType,
		hasher:    hasher,
	}, nil
}

// Hash returns a freshly allocated slice of positions for key.
func (f *HashFunction) Hash(key *Key) ([]uint, error) {
	if key == nil {
		return nil, ErrNilKey
	}
	b := key.Bytes()
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: key length must be > 0", ErrInvalidArgument)
	}

	positions := make([]uint, f.hashCount)
	seed := int32(0)
	for i := range positions {
		p := int64(f.hasher.Hash(b, len(b), seed)) % int64(f.maxValue)
		if p < 0 {
			p = -p
		}
		positions[i] = uint(p)
		seed = int32(p)
	}
	return positions, nil
}

// Clear exists for callers written against the cached variant of this type.
// Positions are never cached, so there is nothing to discard.
func (f *HashFunction) Clear() {}

func (f *HashFunction) MaxValue() int {
	return f.maxValue
}

func (f *HashFunction) HashCount() int {
	return f.hashCount
}

func (f *HashFunction) HashType() hash.Type {
	return f.hashType
}
