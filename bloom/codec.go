package bloom

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"

	"github.com/strategist922/bloomfilters/hash"
)

// HeaderBytes is the size of the encoded configuration:
//
//	int32 vectorSize | int32 hashCount | int8 hashType
//
// Integers are big-endian. The header is followed by ceil(vectorSize/8)
// bytes of bits, bit i stored in byte i/8 at the LSB-0 position i%8.
const HeaderBytes = 9

// EncodeConfig writes the header for cfg into b.
func EncodeConfig(b []byte, cfg Config) {
	writeI32BE(b[0:4], int32(cfg.VectorSize))
	writeI32BE(b[4:8], int32(cfg.HashCount))
	b[8] = byte(cfg.HashType)
}

// DecodeConfig reads and validates a header.
func DecodeConfig(b []byte) (Config, error) {
	cfg := Config{
		VectorSize: int(readI32BE(b[0:4])),
		HashCount:  int(readI32BE(b[4:8])),
		HashType:   hash.Type(int8(b[8])),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return cfg, nil
}

// WriteTo encodes the filter into w.
func (f *BloomFilter) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, HeaderBytes+bitsetBytes(f.cfg.VectorSize))
	EncodeConfig(buf, f.cfg)
	packLSB0(buf[HeaderBytes:], f.bits)

	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom replaces the receiver with a filter decoded from r.
// A zero BloomFilter is a valid receiver.
// Memory grows with the bytes read from r, not with the sizes the header claims.
func (f *BloomFilter) ReadFrom(r io.Reader) (int64, error) {
	var header [HeaderBytes]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil {
		return int64(n), fmt.Errorf("%w: reading header: %v", ErrCorrupt, err)
	}
	cfg, err := DecodeConfig(header[:])
	if err != nil {
		return int64(n), err
	}

	// the buffer grows with the bytes actually read, never from the header alone
	want := bitsetBytes(cfg.VectorSize)
	body, err := io.ReadAll(io.LimitReader(r, int64(want)))
	total := int64(n + len(body))
	if err != nil {
		return total, fmt.Errorf("%w: reading bits: %v", ErrCorrupt, err)
	}
	if len(body) != want {
		return total, fmt.Errorf("%w: reading bits: got %d of %d bytes: %v", ErrCorrupt, len(body), want, io.ErrUnexpectedEOF)
	}
	bits, err := unpackLSB0(body, cfg.VectorSize)
	if err != nil {
		return total, err
	}

	decoded, err := _new(cfg, bits)
	if err != nil {
		return total, err
	}
	*f = *decoded
	return total, nil
}

func (f *BloomFilter) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary leaves the receiver untouched unless data holds exactly one filter.
func (f *BloomFilter) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	decoded, err := ReadBloomFilter(r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	*f = *decoded
	return nil
}

// ReadBloomFilter decodes one filter from r.
func ReadBloomFilter(r io.Reader) (*BloomFilter, error) {
	f := &BloomFilter{}
	if _, err := f.ReadFrom(r); err != nil {
		return nil, err
	}
	return f, nil
}

func packLSB0(dst []byte, bits *bitset.BitSet) {
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		dst[i>>3] |= 1 << (i & 7)
	}
}

func unpackLSB0(src []byte, vectorSize int) (*bitset.BitSet, error) {
	bits := bitset.New(uint(vectorSize))
	for byteIdx, b := range src {
		for bit := uint(0); b != 0 && bit < 8; bit++ {
			if b&(1<<bit) == 0 {
				continue
			}
			loc := uint(byteIdx)<<3 | bit
			if loc >= uint(vectorSize) {
				return nil, fmt.Errorf("%w: bit %d set beyond vector size %d", ErrCorrupt, loc, vectorSize)
			}
			bits.Set(loc)
		}
	}
	return bits, nil
}
