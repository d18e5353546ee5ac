/*
	this package keeps filters in redis.

	Put / GetBloom / GetDynamic store the binary encoding of a filter under one
	string key, optionally compressed.

	PutBitmap / GetBitmap / SyncBitmap use a plain redis bitmap instead, one bit per
	filter position, so that several processes can SETBIT into the same key and
	share one filter.
*/

package redisstore

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"k8s.io/klog/v2"

	"github.com/strategist922/bloomfilters"
	"github.com/strategist922/bloomfilters/bloom"
)

var ErrNotFound = errors.New(`redisstore: filter not found`)

type Options struct {
	// prepended to every name
	KeyPrefix string

	Compression Compression

	// zero means the key never expires
	TTL time.Duration
}

type Store struct {
	client redis.Cmdable
	opts   Options
}

func New(client redis.Cmdable, opts Options) *Store {
	return &Store{client: client, opts: opts}
}

func (s *Store) keyName(name string) string {
	return s.opts.KeyPrefix + name
}

// Put stores the binary encoding of f under name, replacing any previous value.
func (s *Store) Put(name string, f bloom.Filter) error {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	frame, err := pack(buf.Bytes(), s.opts.Compression)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}

	key := s.keyName(name)
	if err := s.client.Set(key, frame, s.opts.TTL).Err(); err != nil {
		return err
	}
	klog.V(2).Infof("redisstore: stored %s (%d bytes, %d packed, %s)", key, buf.Len(), len(frame), s.opts.Compression)
	return nil
}

func (s *Store) get(name string) ([]byte, error) {
	key := s.keyName(name)
	frame, err := s.client.Get(key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("redisstore: loaded %s (%d bytes)", key, len(frame))

	data, err := unpack(frame)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return data, nil
}

// GetBloom loads a filter stored by Put from a *bloom.BloomFilter.
func (s *Store) GetBloom(name string) (*bloom.BloomFilter, error) {
	data, err := s.get(name)
	if err != nil {
		return nil, err
	}
	f := &bloom.BloomFilter{}
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return f, nil
}

// GetDynamic loads a filter stored by Put from a *bloomfilters.DynamicBloomFilter.
func (s *Store) GetDynamic(name string) (*bloomfilters.DynamicBloomFilter, error) {
	data, err := s.get(name)
	if err != nil {
		return nil, err
	}
	d := &bloomfilters.DynamicBloomFilter{}
	if err := d.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return d, nil
}

// PutBitmap sets every bit of f in the redis bitmap under name. Bits already
// set in redis stay set.
func (s *Store) PutBitmap(name string, f *bloom.BloomFilter) error {
	return s.uploadLocations(s.keyName(name), f.Locations())
}

func (s *Store) uploadLocations(key string, locations []uint) error {
	// sentinal
	if len(locations) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	defer pipe.Close()
	for _, loc := range locations {
		pipe.SetBit(key, int64(loc), 1)
	}
	if s.opts.TTL > 0 {
		pipe.Expire(key, s.opts.TTL)
	}
	if _, err := pipe.Exec(); err != nil {
		return err
	}
	klog.V(2).Infof("redisstore: set %d bits in %s", len(locations), key)
	return nil
}

// GetBitmap rebuilds a filter of shape cfg from the redis bitmap under name.
func (s *Store) GetBitmap(name string, cfg bloom.Config) (*bloom.BloomFilter, error) {
	key := s.keyName(name)
	raw, err := s.client.Get(key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return bloom.NewFromRedis(raw, cfg)
}

// SyncBitmap merges the shared bitmap under name into f, then uploads the bits
// of f that the shared bitmap was missing.
func (s *Store) SyncBitmap(name string, f *bloom.BloomFilter) error {
	key := s.keyName(name)

	// step 1: merge the redis bitmap into the local filter
	remote, err := s.GetBitmap(name, f.Config())
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	locations := f.Locations()
	candidates := locations
	if remote != nil {
		candidates = nil
		for _, loc := range locations {
			if !remote.TestBit(loc) {
				candidates = append(candidates, loc)
			}
		}
		if err := f.Or(remote); err != nil {
			return err
		}
	}

	// step 2: upload what redis did not have yet
	return s.uploadLocations(key, candidates)
}

func (s *Store) Delete(name string) error {
	return s.client.Del(s.keyName(name)).Err()
}
