package hash

import (
	"testing"

	"github.com/spaolacci/murmur3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	assert.Equal(t, Jenkins, ParseType("jenkins"))
	assert.Equal(t, Murmur, ParseType("murmur"))
	assert.Equal(t, Jenkins, ParseType("JenkinS"))
	assert.Equal(t, Murmur, ParseType("murMUR"))
	assert.Equal(t, Murmur3, ParseType("Murmur3"))
	assert.Equal(t, XXHash, ParseType("xxhash"))
	assert.Equal(t, Invalid, ParseType("ciao"))
	assert.Equal(t, Invalid, ParseType(""))
}

func TestGetInstance(t *testing.T) {
	assert.Same(t, jenkinsInstance, GetInstance(Jenkins))
	assert.Same(t, murmurInstance, GetInstance(Murmur))
	assert.Same(t, GetInstance(0), GetInstance(Jenkins))
	assert.Same(t, GetInstance(1), GetInstance(Murmur))
	assert.NotNil(t, GetInstance(Murmur3))
	assert.NotNil(t, GetInstance(XXHash))
	assert.Nil(t, GetInstance(-1))
	assert.Nil(t, GetInstance(4))
	assert.Nil(t, GetInstance(Invalid))
}

func TestTypeText(t *testing.T) {
	for _, typ := range []Type{Jenkins, Murmur, Murmur3, XXHash} {
		text, err := typ.MarshalText()
		require.NoError(t, err)

		var back Type
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, typ, back)
	}

	_, err := Invalid.MarshalText()
	assert.Error(t, err)

	var typ Type
	var unknown *UnknownTypeError
	require.ErrorAs(t, typ.UnmarshalText([]byte("sha1")), &unknown)
	assert.Equal(t, "sha1", unknown.Name)
	assert.Equal(t, "invalid", Type(9).String())
}

func TestJenkins(t *testing.T) {
	h := GetInstance(Jenkins)
	b := []byte("toto")

	assert.Equal(t, int32(-515368923), Sum(h, b))
	assert.Equal(t, int32(-24554862), SumSeed(h, b, 0))
	assert.Equal(t, int32(1554336639), h.Hash(b, len(b), 1))
	assert.Equal(t, int32(-644235423), h.Hash(b, len(b)-2, 1))
}

func TestMurmur(t *testing.T) {
	h := GetInstance(Murmur)
	b := []byte("toto")

	assert.Equal(t, int32(-64559531), Sum(h, b))
	assert.Equal(t, int32(2042495031), SumSeed(h, b, 0))
	assert.Equal(t, int32(1025330876), h.Hash(b, len(b), 1))
	assert.Equal(t, int32(1443387981), h.Hash(b, len(b)-2, 1))
}

func TestMurmur3(t *testing.T) {
	h := GetInstance(Murmur3)
	b := []byte("toto and lulu")

	assert.Equal(t, int32(murmur3.Sum32WithSeed(b, 7)), SumSeed(h, b, 7))
	// only the first length bytes take part
	assert.Equal(t, int32(murmur3.Sum32WithSeed(b[:4], 7)), h.Hash(b, 4, 7))
}

// the chained seeding used by filters relies on the seed actually changing the output
func TestSeedSensitivity(t *testing.T) {
	long := []byte("a key that is definitely longer than twelve bytes")
	for _, typ := range []Type{Jenkins, Murmur, Murmur3, XXHash} {
		h := GetInstance(typ)
		for _, b := range [][]byte{[]byte("toto"), long} {
			a1 := SumSeed(h, b, 0)
			a2 := SumSeed(h, b, 0)
			assert.Equal(t, a1, a2, typ.String())
			assert.NotEqual(t, a1, SumSeed(h, b, 1), typ.String())
		}
	}
}
