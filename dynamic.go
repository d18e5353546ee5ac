package bloomfilters

import (
	"github.com/strategist922/bloomfilters/bloom"
	"github.com/strategist922/bloomfilters/hash"
)

// DynamicBloomFilter appends a row every maxKeysPerRow keys and never drops one.
//
// The zero value is only a receiver for ReadFrom and UnmarshalBinary: Add fails
// with bloom.ErrUninitialized, MembershipTest reports false and String is empty.
type DynamicBloomFilter struct {
	*rows
}

var _ bloom.Filter = (*DynamicBloomFilter)(nil)

func NewDynamicBloomFilter(vectorSize, hashCount int, hashType hash.Type, maxKeysPerRow int) (*DynamicBloomFilter, error) {
	cfg := bloom.Config{VectorSize: vectorSize, HashCount: hashCount, HashType: hashType}
	r, err := newRows(cfg, maxKeysPerRow, 0)
	if err != nil {
		return nil, err
	}
	return &DynamicBloomFilter{rows: r}, nil
}

// NewDynamicFromConfig ignores cfg.MaxRows.
func NewDynamicFromConfig(cfg RowConfig) (*DynamicBloomFilter, error) {
	return NewDynamicBloomFilter(cfg.VectorSize, cfg.HashCount, cfg.HashType, cfg.MaxKeysPerRow)
}

func (d *DynamicBloomFilter) Add(key *bloom.Key) error {
	return d.add(key)
}

// AddAll adds keys in order and stops at the first failing key.
func (d *DynamicBloomFilter) AddAll(keys []*bloom.Key) error {
	return d.addAll(keys)
}

func (d *DynamicBloomFilter) MembershipTest(key *bloom.Key) bool {
	return d.membershipTest(key)
}

func (d *DynamicBloomFilter) And(other bloom.Filter) error {
	return d.pairwise(other, (*bloom.BloomFilter).And)
}

func (d *DynamicBloomFilter) Or(other bloom.Filter) error {
	return d.pairwise(other, (*bloom.BloomFilter).Or)
}

func (d *DynamicBloomFilter) Xor(other bloom.Filter) error {
	return d.pairwise(other, (*bloom.BloomFilter).Xor)
}

func (d *DynamicBloomFilter) Not() error {
	for _, f := range d.filters {
		if err := f.Not(); err != nil {
			return err
		}
	}
	return nil
}

func (d *DynamicBloomFilter) Clone() (bloom.Filter, error) {
	return d.Copy(), nil
}

// Copy is Clone without the interface conversion.
func (d *DynamicBloomFilter) Copy() *DynamicBloomFilter {
	return &DynamicBloomFilter{rows: d.copyRows()}
}

// pairwise applies op to row i of d and row i of other, for every row.
func (d *DynamicBloomFilter) pairwise(other bloom.Filter, op func(*bloom.BloomFilter, bloom.Filter) error) error {
	o, ok := other.(*DynamicBloomFilter)
	if !ok || o == nil || o.rows == nil {
		return bloom.ErrIncompatible
	}
	if o.cfg != d.cfg || o.maxKeysPerRow != d.maxKeysPerRow || len(o.filters) != len(d.filters) {
		return bloom.ErrIncompatible
	}
	for i, f := range d.filters {
		if err := op(f, o.filters[i]); err != nil {
			return err
		}
	}
	return nil
}
