package bloomfilters

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategist922/bloomfilters/bloom"
	"github.com/strategist922/bloomfilters/hash"
)

func TestDynamicWriteToLayout(t *testing.T) {
	d := newDynamic(t, "toto", "lulu", "mamma")

	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(DynamicHeaderBytes+2*(bloom.HeaderBytes+1)), n)
	assert.Equal(t, []byte{
		0, 0, 0, 8, 0, 0, 0, 2, 0, // shape
		0, 0, 0, 2, // max keys per row
		0, 0, 0, 1, // keys in the active row
		0, 0, 0, 2, // rows
		0, 0, 0, 8, 0, 0, 0, 2, 0, 0b11001001,
		0, 0, 0, 8, 0, 0, 0, 2, 0, 0b00000001,
	}, buf.Bytes())
}

func TestDynamicRoundTrip(t *testing.T) {
	d, err := NewDynamicBloomFilter(1000, 4, hash.XXHash, 25)
	require.NoError(t, err)
	keys := bloom.RandKeys(110, 10)
	require.NoError(t, d.AddAll(keys))

	data, err := d.MarshalBinary()
	require.NoError(t, err)

	var back DynamicBloomFilter
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, d.Config(), back.Config())
	assert.Equal(t, d.MaxKeysPerRow(), back.MaxKeysPerRow())
	assert.Equal(t, 10, back.CurrentRowKeyCount())
	assert.Equal(t, 5, back.RowCount())
	assert.Equal(t, d.String(), back.String())
	for _, k := range keys {
		assert.True(t, back.MembershipTest(k))
	}

	// the decoded filter keeps filling its active row
	require.NoError(t, back.AddAll(bloom.RandKeys(15, 11)))
	assert.Equal(t, 5, back.RowCount())
	assert.Equal(t, 25, back.CurrentRowKeyCount())
}

func TestReadDynamicBloomFilterStream(t *testing.T) {
	a := newDynamic(t, "toto")
	b := newDynamic(t, "lula", "to", "mama")

	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)
	_, err = b.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadDynamicBloomFilter(&buf)
	require.NoError(t, err)
	assert.Equal(t, a.String(), got.String())

	got, err = ReadDynamicBloomFilter(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.String(), got.String())
	assert.Zero(t, buf.Len())
}

func TestDynamicReadFromRejectsCorruptData(t *testing.T) {
	good, err := newDynamic(t, "toto", "lulu", "mamma").MarshalBinary()
	require.NoError(t, err)

	corrupt := func(edit func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return edit(b)
	}

	cases := map[string][]byte{
		"empty":         {},
		"short header":  good[:DynamicHeaderBytes-1],
		"missing row":   good[:DynamicHeaderBytes+bloom.HeaderBytes+1],
		"trailing byte": append(append([]byte(nil), good...), 0),
		"zero rows": corrupt(func(b []byte) []byte {
			b[20] = 0
			return b
		}),
		"zero max keys": corrupt(func(b []byte) []byte {
			b[12] = 0
			return b
		}),
		"current above max": corrupt(func(b []byte) []byte {
			b[16] = 3
			return b
		}),
		"bad hash type": corrupt(func(b []byte) []byte {
			b[8] = 9
			return b
		}),
		"row shape differs": corrupt(func(b []byte) []byte {
			b[DynamicHeaderBytes+7] = 3
			return b
		}),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			d := newDynamic(t, "lula")
			err := d.UnmarshalBinary(data)
			assert.ErrorIs(t, err, bloom.ErrCorrupt)
			assert.Equal(t, "{3, 4}\n", d.String())
		})
	}
}

func TestDynamicReadFromHugeHeaderAllocatesLittle(t *testing.T) {
	data := []byte{
		0x7f, 0xff, 0xff, 0xff, 0, 0, 0, 2, 0, // 2^31-1 bits
		0, 0, 0, 2,
		0, 0, 0, 0,
		0, 0, 0, 3,
		0x7f, 0xff, 0xff, 0xff, 0, 0, 0, 2, 0, 0xff, // first row, truncated
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := ReadDynamicBloomFilter(bytes.NewReader(data))
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, bloom.ErrCorrupt)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestDynamicZeroValue(t *testing.T) {
	var d DynamicBloomFilter
	assert.ErrorIs(t, d.Add(bloom.NewStringKey("toto")), bloom.ErrUninitialized)
	assert.ErrorIs(t, d.AddAll([]*bloom.Key{bloom.NewStringKey("toto")}), bloom.ErrUninitialized)
	assert.False(t, d.MembershipTest(bloom.NewStringKey("toto")))
	assert.Zero(t, d.RowCount())
	assert.Equal(t, "", d.String())

	data, err := newDynamic(t, "toto").MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, d.UnmarshalBinary(data))
	require.NoError(t, d.Add(bloom.NewStringKey("lulu")))
	assert.Equal(t, "{0, 3, 6, 7}\n", d.String())
}
