/*
	this package provides the row based bloom filters.

	Both variants keep an ordered list of bloom.BloomFilter rows sharing one shape.
	Keys always go to the last row; once it holds MaxKeysPerRow keys a fresh row is
	appended. A key is a member if any row reports it.

	DynamicBloomFilter grows without bound and supports the full boolean algebra.
	RotatingBloomFilter keeps at most MaxRows rows, dropping the oldest one when a
	new row is needed, and refuses boolean algebra, cloning and persistence: two
	rotating filters with the same configuration may hold different row windows.

	Remarks: nothing here is thread safe
*/

package bloomfilters

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strategist922/bloomfilters/bloom"
	"github.com/strategist922/bloomfilters/hash"
)

type RowConfig struct {
	bloom.Config `yaml:",inline"`

	// the number of keys recorded in a row before a new row is opened
	MaxKeysPerRow int `yaml:"max_keys_per_row"`

	// the number of rows a rotating filter keeps. ignored by the dynamic filter
	MaxRows int `yaml:"max_rows"`
}

// DefaultRowConfig sizes rows for roughly 1% false positives per row.
func DefaultRowConfig() RowConfig {
	return RowConfig{
		Config: bloom.Config{
			VectorSize: 1 << 16,
			HashCount:  5,
			HashType:   hash.Jenkins,
		},
		MaxKeysPerRow: 6000,
		MaxRows:       8,
	}
}

// Validate checks the row parameters. MaxRows may be zero for a dynamic filter.
func (c RowConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.MaxKeysPerRow <= 0 {
		return fmt.Errorf("%w: max keys per row must be positive, got %d", bloom.ErrInvalidArgument, c.MaxKeysPerRow)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("%w: max rows can not be negative, got %d", bloom.ErrInvalidArgument, c.MaxRows)
	}
	return nil
}

// LoadConfig reads a YAML row configuration. Fields missing from the file
// keep their DefaultRowConfig value.
//
//	vector_size: 65536
//	hash_count: 5
//	hash_type: murmur
//	max_keys_per_row: 6000
//	max_rows: 8
func LoadConfig(path string) (RowConfig, error) {
	cfg := DefaultRowConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return RowConfig{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RowConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return RowConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
