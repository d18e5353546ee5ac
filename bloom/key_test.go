package bloom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHashCode(t *testing.T) {
	key, err := NewKey([]byte("toto"))
	require.NoError(t, err)
	assert.Equal(t, int32(1072693248), key.HashCode())

	heavy, err := NewKeyWithWeight([]byte("toto"), 7.5)
	require.NoError(t, err)
	assert.Equal(t, key.HashCode(), heavy.HashCode())
	assert.NotEqual(t, key.HashCode(), NewStringKey("tot").HashCode())
}

func TestKeyConstructor(t *testing.T) {
	b := []byte("toto")
	key, err := NewKey(b)
	require.NoError(t, err)
	assert.Equal(t, b, key.Bytes())
	assert.InDelta(t, 1.0, key.Weight(), 0.01)

	key, err = NewKeyWithWeight(b, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, key.Weight(), 0.01)

	_, err = NewKey(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// empty but non-nil payloads are valid keys, they just can not be hashed
	empty, err := NewKey([]byte{})
	require.NoError(t, err)
	assert.Empty(t, empty.Bytes())
}

func TestStringKey(t *testing.T) {
	key := NewStringKey("héhé")
	assert.Equal(t, []byte("héhé"), key.Bytes())
	assert.Len(t, key.Bytes(), 6)
	assert.InDelta(t, 1.0, key.Weight(), 0.01)
}

func TestKeyEqual(t *testing.T) {
	k1 := NewStringKey("toto")
	k2 := NewStringKey("toto")
	k3 := NewStringKey("lula")
	k4, err := NewKeyWithWeight([]byte("toto"), 2.0)
	require.NoError(t, err)

	assert.True(t, k1.Equal(k2))
	assert.True(t, k2.Equal(k1))
	assert.False(t, k1.Equal(k3))
	assert.False(t, k3.Equal(k1))
	// weight does not take part
	assert.True(t, k1.Equal(k4))
	assert.False(t, k1.Equal(nil))
}

func TestKeyIncrementWeight(t *testing.T) {
	key := NewStringKey("toto")
	key.IncrementWeight(2.0)
	assert.InDelta(t, 3.0, key.Weight(), 0.01)

	key.Increment()
	assert.InDelta(t, 4.0, key.Weight(), 0.01)
}

func TestKeyCompare(t *testing.T) {
	k1 := NewStringKey("toto")
	k2 := NewStringKey("toto")
	k3 := NewStringKey("lulu")

	assert.Equal(t, 0, k1.Compare(k2))
	assert.Equal(t, 0, k2.Compare(k1))
	assert.Equal(t, -k3.Compare(k1), k1.Compare(k3))
	assert.Positive(t, k1.Compare(k3))
	assert.Negative(t, NewStringKey("to").Compare(k1))
}

func TestNewKeyCopiesInput(t *testing.T) {
	buf := []byte("toto")
	k, err := NewKey(buf)
	require.NoError(t, err)

	copy(buf, "lula")
	assert.Equal(t, []byte("toto"), k.Bytes())
	assert.True(t, k.Equal(NewStringKey("toto")))

	empty, err := NewKey([]byte{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Bytes())
	assert.Empty(t, empty.Bytes())
}
