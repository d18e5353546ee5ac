package bloomfilters

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/strategist922/bloomfilters/bloom"
)

// DynamicHeaderBytes is the size of the encoded dynamic filter header:
//
//	bloom header | int32 maxKeysPerRow | int32 currentRowKeyCount | int32 rowCount
//
// followed by rowCount bloom filter encodings, oldest first.
const DynamicHeaderBytes = bloom.HeaderBytes + 12

func (d *DynamicBloomFilter) WriteTo(w io.Writer) (int64, error) {
	var header [DynamicHeaderBytes]byte
	bloom.EncodeConfig(header[:], d.cfg)
	rest := header[bloom.HeaderBytes:]
	binary.BigEndian.PutUint32(rest[0:4], uint32(d.maxKeysPerRow))
	binary.BigEndian.PutUint32(rest[4:8], uint32(d.currentNumberOfKeys))
	binary.BigEndian.PutUint32(rest[8:12], uint32(len(d.filters)))

	n, err := w.Write(header[:])
	total := int64(n)
	if err != nil {
		return total, err
	}
	for _, f := range d.filters {
		m, err := f.WriteTo(w)
		total += m
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom replaces the receiver with a filter decoded from r.
// A zero DynamicBloomFilter is a valid receiver.
func (d *DynamicBloomFilter) ReadFrom(r io.Reader) (int64, error) {
	var header [DynamicHeaderBytes]byte
	n, err := io.ReadFull(r, header[:])
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("%w: reading header: %v", bloom.ErrCorrupt, err)
	}
	cfg, err := bloom.DecodeConfig(header[:])
	if err != nil {
		return total, err
	}
	rest := header[bloom.HeaderBytes:]
	maxKeysPerRow := int(int32(binary.BigEndian.Uint32(rest[0:4])))
	current := int(int32(binary.BigEndian.Uint32(rest[4:8])))
	rowCount := int(int32(binary.BigEndian.Uint32(rest[8:12])))

	if maxKeysPerRow <= 0 || current < 0 || current > maxKeysPerRow || rowCount <= 0 {
		return total, fmt.Errorf("%w: bad row header (max keys %d, current %d, rows %d)",
			bloom.ErrCorrupt, maxKeysPerRow, current, rowCount)
	}

	// rows are appended as they decode, a row count beyond the payload fails on EOF
	var filters []*bloom.BloomFilter
	for i := 0; i < rowCount; i++ {
		row := &bloom.BloomFilter{}
		m, err := row.ReadFrom(r)
		total += m
		if err != nil {
			return total, fmt.Errorf("row %d: %w", i, err)
		}
		if row.Config() != cfg {
			return total, fmt.Errorf("%w: row %d shape %+v differs from %+v", bloom.ErrCorrupt, i, row.Config(), cfg)
		}
		filters = append(filters, row)
	}

	// the empty prototype row is allocated only after real rows decoded
	decoded, err := newRows(cfg, maxKeysPerRow, 0)
	if err != nil {
		return total, err
	}
	decoded.filters = filters
	decoded.currentNumberOfKeys = current

	d.rows = decoded
	return total, nil
}

func (d *DynamicBloomFilter) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *DynamicBloomFilter) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	decoded, err := ReadDynamicBloomFilter(r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", bloom.ErrCorrupt, r.Len())
	}
	d.rows = decoded.rows
	return nil
}

// ReadDynamicBloomFilter decodes one dynamic filter from r.
func ReadDynamicBloomFilter(r io.Reader) (*DynamicBloomFilter, error) {
	d := &DynamicBloomFilter{}
	if _, err := d.ReadFrom(r); err != nil {
		return nil, err
	}
	return d, nil
}
