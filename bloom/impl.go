package bloom

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/strategist922/bloomfilters/hash"
)

// BloomFilter is a single fixed-size bit vector.
//
// The zero value is an empty shell for ReadFrom and UnmarshalBinary: Add fails with
// ErrUninitialized, MembershipTest reports false and String renders "{}".
// Use NewBloomFilter or NewFromConfig for a usable filter.
type BloomFilter struct {
	cfg  Config
	hash *HashFunction
	bits *bitset.BitSet
}

var _ Filter = (*BloomFilter)(nil)

func NewBloomFilter(vectorSize, hashCount int, hashType hash.Type) (*BloomFilter, error) {
	return NewFromConfig(Config{VectorSize: vectorSize, HashCount: hashCount, HashType: hashType})
}

func NewFromConfig(cfg Config) (*BloomFilter, error) {
	return _new(cfg, nil)
}

// bits may be nil for an empty filter
func _new(cfg Config, bits *bitset.BitSet) (*BloomFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hf, err := NewHashFunction(cfg.VectorSize, cfg.HashCount, cfg.HashType)
	if err != nil {
		return nil, err
	}
	if bits == nil {
		bits = bitset.New(uint(cfg.VectorSize))
	}
	return &BloomFilter{
		cfg:  cfg,
		hash: hf,
		bits: bits,
	}, nil
}

func (f *BloomFilter) Add(key *Key) error {
	if key == nil {
		return ErrNilKey
	}
	if f.hash == nil {
		return ErrUninitialized
	}
	locations, err := f.hash.Hash(key)
	if err != nil {
		return err
	}
	for _, loc := range locations {
		f.bits.Set(loc)
	}
	return nil
}

func (f *BloomFilter) MembershipTest(key *Key) bool {
	if key == nil || f.hash == nil {
		return false
	}
	locations, err := f.hash.Hash(key)
	if err != nil {
		return false
	}
	for _, loc := range locations {
		if !f.bits.Test(loc) {
			return false
		}
	}
	return true
}

func (f *BloomFilter) And(other Filter) error {
	o, err := f.compatible(other)
	if err != nil {
		return err
	}
	f.bits.InPlaceIntersection(o.bits)
	return nil
}

func (f *BloomFilter) Or(other Filter) error {
	o, err := f.compatible(other)
	if err != nil {
		return err
	}
	f.bits.InPlaceUnion(o.bits)
	return nil
}

func (f *BloomFilter) Xor(other Filter) error {
	o, err := f.compatible(other)
	if err != nil {
		return err
	}
	f.bits.InPlaceSymmetricDifference(o.bits)
	return nil
}

// Not flips bits [0, vectorSize-1). The last bit is never flipped.
func (f *BloomFilter) Not() error {
	f.bits.FlipRange(0, uint(f.cfg.VectorSize-1))
	return nil
}

func (f *BloomFilter) Clone() (Filter, error) {
	return f.Copy(), nil
}

// Copy is Clone without the interface conversion.
func (f *BloomFilter) Copy() *BloomFilter {
	return &BloomFilter{
		cfg:  f.cfg,
		hash: f.hash,
		bits: f.bits.Clone(),
	}
}

func (f *BloomFilter) Config() Config {
	return f.cfg
}

// TestBit reports whether bit loc is set.
func (f *BloomFilter) TestBit(loc uint) bool {
	return f.bits != nil && f.bits.Test(loc)
}

// Locations returns the set bit indices in ascending order.
func (f *BloomFilter) Locations() []uint {
	if f.bits == nil {
		return nil
	}
	output := make([]uint, 0, f.bits.Count())
	for i, ok := f.bits.NextSet(0); ok; i, ok = f.bits.NextSet(i + 1) {
		output = append(output, i)
	}
	return output
}

// Count returns the number of set bits.
func (f *BloomFilter) Count() int {
	if f.bits == nil {
		return 0
	}
	return int(f.bits.Count())
}

// Equal reports whether both filters have the same shape and the same bits.
func (f *BloomFilter) Equal(other *BloomFilter) bool {
	if other == nil {
		return false
	}
	return f.cfg == other.cfg && f.bits.Equal(other.bits)
}

// String renders the set bit indices, e.g. "{0, 3, 6}".
func (f *BloomFilter) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, loc := range f.Locations() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(uint64(loc), 10))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (f *BloomFilter) compatible(other Filter) (*BloomFilter, error) {
	o, ok := other.(*BloomFilter)
	if !ok || o == nil {
		return nil, ErrIncompatible
	}
	if o.cfg != f.cfg {
		return nil, ErrIncompatible
	}
	return o, nil
}
