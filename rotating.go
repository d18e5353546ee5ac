package bloomfilters

import (
	"fmt"
	"io"

	"github.com/strategist922/bloomfilters/bloom"
	"github.com/strategist922/bloomfilters/hash"
)

// RotatingBloomFilter keeps the most recent maxRows rows. Once the budget is
// reached, opening a new row drops the oldest one.
type RotatingBloomFilter struct {
	*rows
}

var _ bloom.Filter = (*RotatingBloomFilter)(nil)

func NewRotatingBloomFilter(vectorSize, hashCount int, hashType hash.Type, maxKeysPerRow, maxRows int) (*RotatingBloomFilter, error) {
	if maxRows <= 0 {
		return nil, fmt.Errorf("%w: max rows must be positive, got %d", bloom.ErrInvalidArgument, maxRows)
	}
	cfg := bloom.Config{VectorSize: vectorSize, HashCount: hashCount, HashType: hashType}
	r, err := newRows(cfg, maxKeysPerRow, maxRows)
	if err != nil {
		return nil, err
	}
	return &RotatingBloomFilter{rows: r}, nil
}

func NewRotatingFromConfig(cfg RowConfig) (*RotatingBloomFilter, error) {
	return NewRotatingBloomFilter(cfg.VectorSize, cfg.HashCount, cfg.HashType, cfg.MaxKeysPerRow, cfg.MaxRows)
}

func (f *RotatingBloomFilter) Add(key *bloom.Key) error {
	return f.add(key)
}

func (f *RotatingBloomFilter) AddAll(keys []*bloom.Key) error {
	return f.addAll(keys)
}

func (f *RotatingBloomFilter) MembershipTest(key *bloom.Key) bool {
	return f.membershipTest(key)
}

func (f *RotatingBloomFilter) MaxRows() int {
	return f.maxRows
}

func unsupported(op string) error {
	return fmt.Errorf("%w: %s on a rotating bloom filter", bloom.ErrUnsupported, op)
}

func (f *RotatingBloomFilter) And(bloom.Filter) error { return unsupported("and") }

func (f *RotatingBloomFilter) Or(bloom.Filter) error { return unsupported("or") }

func (f *RotatingBloomFilter) Xor(bloom.Filter) error { return unsupported("xor") }

func (f *RotatingBloomFilter) Not() error { return unsupported("not") }

func (f *RotatingBloomFilter) Clone() (bloom.Filter, error) { return nil, unsupported("clone") }

func (f *RotatingBloomFilter) WriteTo(io.Writer) (int64, error) { return 0, unsupported("write") }

func (f *RotatingBloomFilter) ReadFrom(io.Reader) (int64, error) { return 0, unsupported("read") }
