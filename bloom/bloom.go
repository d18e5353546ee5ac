/*
	this package provides the fixed size bloom filter, the keys it stores and
	the hash function deriving bit positions from a key.
	Remarks: nothing here is thread safe, callers sharing a filter must serialize access
*/

package bloom

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/strategist922/bloomfilters/hash"
)

var (
	ErrInvalidArgument = errors.New(`bloom: invalid argument`)
	ErrUnsupported     = errors.New(`bloom: operation not supported`)
	ErrCorrupt         = errors.New(`bloom: corrupted filter data`)

	ErrNilKey = fmt.Errorf(`%w: key can not be nil`, ErrInvalidArgument)

	// ErrUninitialized is returned by Add on a zero value filter.
	ErrUninitialized = fmt.Errorf(`%w: filter is not initialized`, ErrInvalidArgument)

	// ErrIncompatible is returned by And, Or and Xor. It matches ErrInvalidArgument as well.
	ErrIncompatible = fmt.Errorf(`%w: filters are not compatible`, ErrInvalidArgument)
)

// Filter is the operation set shared by every filter variant.
// A variant that cannot support an operation returns ErrUnsupported.
type Filter interface {
	// Add records key; key must be non-nil.
	Add(key *Key) error
	// MembershipTest never gives a false negative. A nil key is never a member.
	MembershipTest(key *Key) bool

	// Warning: only filters with the same variant and shape can be combined,
	// otherwise ErrIncompatible is returned.
	// other is never modified.
	And(other Filter) error
	Or(other Filter) error
	Xor(other Filter) error
	Not() error

	Clone() (Filter, error)

	WriteTo(w io.Writer) (int64, error)
	ReadFrom(r io.Reader) (int64, error)

	Config() Config
	String() string
}

// Config is the shape shared by every filter variant.
type Config struct {
	VectorSize int       `yaml:"vector_size"`
	HashCount  int       `yaml:"hash_count"`
	HashType   hash.Type `yaml:"hash_type"`
}

// Validate checks that c describes a buildable filter.
func (c Config) Validate() error {
	if c.VectorSize <= 0 || c.VectorSize > math.MaxInt32 {
		return fmt.Errorf("%w: vector size must be in (0, %d], got %d", ErrInvalidArgument, math.MaxInt32, c.VectorSize)
	}
	if c.HashCount <= 0 {
		return fmt.Errorf("%w: hash count must be positive, got %d", ErrInvalidArgument, c.HashCount)
	}
	if !c.HashType.Valid() {
		return fmt.Errorf("%w: unknown hash type %d", ErrInvalidArgument, int8(c.HashType))
	}
	return nil
}
