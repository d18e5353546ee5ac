package redisstore

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/strategist922/bloomfilters/bloom"
)

// Compression selects how encoded filters are packed before they are stored.
type Compression uint8

const (
	CompressionNone Compression = 0
	// fast, the default for hot filters
	CompressionLZ4 Compression = 1
	// better ratio for large sparse filters
	CompressionZSTD Compression = 2
)

var compressionNames = map[Compression]string{
	CompressionNone: "none",
	CompressionLZ4:  "lz4",
	CompressionZSTD: "zstd",
}

// ParseCompression accepts "none", "lz4" or "zstd", case-insensitively.
func ParseCompression(name string) (Compression, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range compressionNames {
		if n == name {
			return c, nil
		}
	}
	return CompressionNone, fmt.Errorf("%w: unknown compression %q", bloom.ErrInvalidArgument, name)
}

func (c Compression) String() string {
	if n, ok := compressionNames[c]; ok {
		return n
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

var zstdEncoderPool sync.Pool

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// newZstdDecoder refuses to produce more than size bytes, whatever the payload claims.
func newZstdDecoder(size uint32) (*zstd.Decoder, error) {
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(max(uint64(size), 1)),
	)
}

// frame layout: [compression u8][uncompressed size u32 BE][payload]
const frameHeaderSize = 5

// pack frames data. LZ4 falls back to a raw frame when the block does not shrink.
func pack(data []byte, c Compression) ([]byte, error) {
	var payload []byte
	switch c {
	case CompressionNone:
		payload = data
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		if n == 0 {
			// incompressible
			c, payload = CompressionNone, data
		} else {
			payload = buf[:n]
		}
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		payload = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", bloom.ErrInvalidArgument, uint8(c))
	}

	out := make([]byte, frameHeaderSize+len(payload))
	out[0] = byte(c)
	binary.BigEndian.PutUint32(out[1:frameHeaderSize], uint32(len(data)))
	copy(out[frameHeaderSize:], payload)
	return out, nil
}

func unpack(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, fmt.Errorf("%w: frame of %d bytes has no header", bloom.ErrCorrupt, len(frame))
	}
	c := Compression(frame[0])
	size := binary.BigEndian.Uint32(frame[1:frameHeaderSize])
	payload := frame[frameHeaderSize:]

	switch c {
	case CompressionNone:
		if uint32(len(payload)) != size {
			return nil, fmt.Errorf("%w: raw frame holds %d bytes, header says %d", bloom.ErrCorrupt, len(payload), size)
		}
		return payload, nil
	case CompressionLZ4:
		// an lz4 block never expands more than 255 fold
		if uint64(size) > 255*uint64(len(payload))+16 {
			return nil, fmt.Errorf("%w: lz4 frame claims %d bytes from %d", bloom.ErrCorrupt, size, len(payload))
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", bloom.ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: lz4 frame decompressed to %d bytes, header says %d", bloom.ErrCorrupt, n, size)
		}
		return out, nil
	case CompressionZSTD:
		dec, err := newZstdDecoder(size)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(payload, make([]byte, 0, min(size, 1<<20)))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", bloom.ErrCorrupt, err)
		}
		if uint32(len(out)) != size {
			return nil, fmt.Errorf("%w: zstd frame decompressed to %d bytes, header says %d", bloom.ErrCorrupt, len(out), size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", bloom.ErrCorrupt, uint8(c))
	}
}
