/*
	this package provides the 32-bit hash algorithms a filter can be configured with.
	Remarks: every algorithm is a stateless singleton, safe to share between goroutines
*/

package hash

import (
	"fmt"
	"strings"
)

// Hash computes a 32-bit hash over the first length bytes of data.
type Hash interface {
	Hash(data []byte, length int, seed int32) int32
}

// Type identifies a hash algorithm. The numeric value is the code persisted
// alongside a filter, so existing values must never change.
//
// Jenkins (0) and Murmur (1) are the codes older filter files know about.
// Murmur3 (2) and XXHash (3) are local additions: files using them can not be
// read by implementations that only accept 0 and 1, where code 2 is invalid.
type Type int8

const (
	Invalid Type = -1
	Jenkins Type = 0
	Murmur  Type = 1
	Murmur3 Type = 2
	XXHash  Type = 3
)

var names = map[Type]string{
	Jenkins: "jenkins",
	Murmur:  "murmur",
	Murmur3: "murmur3",
	XXHash:  "xxhash",
}

// ParseType maps a case-insensitive algorithm name to its Type.
// Unknown names yield Invalid.
func ParseType(name string) Type {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range names {
		if n == name {
			return t
		}
	}
	return Invalid
}

// GetInstance returns the shared instance for t, or nil if t is not a known algorithm.
func GetInstance(t Type) Hash {
	switch t {
	case Jenkins:
		return jenkinsInstance
	case Murmur:
		return murmurInstance
	case Murmur3:
		return murmur3Instance
	case XXHash:
		return xxhashInstance
	}
	return nil
}

// Valid reports whether t names a known algorithm.
func (t Type) Valid() bool {
	_, ok := names[t]
	return ok
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "invalid"
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, &UnknownTypeError{Name: t.String()}
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed := ParseType(string(text))
	if parsed == Invalid {
		return &UnknownTypeError{Name: string(text)}
	}
	*t = parsed
	return nil
}

// UnknownTypeError is returned when text does not name a known algorithm.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("hash: unknown hash type %q", e.Name)
}

// Sum hashes all of data with the default seed of -1.
func Sum(h Hash, data []byte) int32 {
	return h.Hash(data, len(data), -1)
}

// SumSeed hashes all of data with the given seed.
func SumSeed(h Hash, data []byte, seed int32) int32 {
	return h.Hash(data, len(data), seed)
}
