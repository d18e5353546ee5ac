package bloom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategist922/bloomfilters/hash"
)

func TestRedisBitmap(t *testing.T) {
	f := newFilter(t, "toto")
	// redis numbers bit 0 as the most significant bit of the first byte
	assert.Equal(t, []byte{0x82}, f.RedisBitmap())
}

func TestNewFromRedis(t *testing.T) {
	cfg := Config{VectorSize: 10001, HashCount: 3, HashType: hash.Jenkins}

	s1 := NewStringKey(`abcd`)
	s2 := NewStringKey(`1234`)
	s3 := NewStringKey(`plmqx`)

	bloom1, err := NewFromConfig(cfg)
	require.NoError(t, err)
	require.NoError(t, bloom1.Add(s1))
	require.NoError(t, bloom1.Add(s2))

	bloom2, err := NewFromRedis(string(bloom1.RedisBitmap()), cfg)
	require.NoError(t, err)

	assert.True(t, bloom2.MembershipTest(s1))
	assert.True(t, bloom2.MembershipTest(s2))
	assert.False(t, bloom2.MembershipTest(s3))
	assert.True(t, bloom1.Equal(bloom2))
}

func TestNewFromRedisShortAndLongBitmaps(t *testing.T) {
	cfg := Config{VectorSize: 12, HashCount: 2, HashType: hash.Jenkins}

	// redis only stores up to the highest bit ever set
	f, err := NewFromRedis("\x80", cfg)
	require.NoError(t, err)
	assert.Equal(t, "{0}", f.String())

	// bits past the vector size are dropped
	f, err = NewFromRedis("\x00\x18\xff", cfg)
	require.NoError(t, err)
	assert.Equal(t, "{11}", f.String())

	_, err = NewFromRedis("", Config{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
