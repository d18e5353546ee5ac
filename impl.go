package bloomfilters

import (
	"fmt"
	"strings"

	"k8s.io/klog/v2"

	"github.com/strategist922/bloomfilters/bloom"
)

// rows is the state shared by the row based filters.
type rows struct {
	cfg bloom.Config

	// oldest first, the last row is the active one
	filters []*bloom.BloomFilter

	// number of keys added to the active row
	currentNumberOfKeys int

	maxKeysPerRow int
	// zero means unbounded
	maxRows int

	// an empty row, copied whenever a new row is opened
	empty *bloom.BloomFilter
}

func newRows(cfg bloom.Config, maxKeysPerRow, maxRows int) (*rows, error) {
	rc := RowConfig{Config: cfg, MaxKeysPerRow: maxKeysPerRow, MaxRows: maxRows}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	empty, err := bloom.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &rows{
		cfg:           cfg,
		filters:       []*bloom.BloomFilter{empty.Copy()},
		maxKeysPerRow: maxKeysPerRow,
		maxRows:       maxRows,
		empty:         empty,
	}, nil
}

func (r *rows) add(key *bloom.Key) error {
	if key == nil {
		return bloom.ErrNilKey
	}
	if r == nil {
		return bloom.ErrUninitialized
	}
	if len(key.Bytes()) == 0 {
		return fmt.Errorf("%w: key length must be > 0", bloom.ErrInvalidArgument)
	}

	if r.currentNumberOfKeys >= r.maxKeysPerRow {
		r.addRow()
		r.currentNumberOfKeys = 0
	}
	if err := r.filters[len(r.filters)-1].Add(key); err != nil {
		return err
	}
	r.currentNumberOfKeys++
	return nil
}

func (r *rows) addAll(keys []*bloom.Key) error {
	if keys == nil {
		return fmt.Errorf("%w: key list can not be nil", bloom.ErrInvalidArgument)
	}
	if r == nil {
		return bloom.ErrUninitialized
	}
	for i, key := range keys {
		if err := r.add(key); err != nil {
			return fmt.Errorf("adding key %d: %w", i, err)
		}
	}
	return nil
}

// addRow rebuilds the row list with a fresh row at the end. While under the
// row budget every row is kept, otherwise the oldest row is dropped.
func (r *rows) addRow() {
	var tmp []*bloom.BloomFilter
	if r.maxRows == 0 || len(r.filters) < r.maxRows {
		tmp = make([]*bloom.BloomFilter, len(r.filters)+1)
		for i, f := range r.filters {
			tmp[i] = f.Copy()
		}
		klog.V(4).Infof("bloom rows: grown to %d rows", len(tmp))
	} else {
		tmp = make([]*bloom.BloomFilter, len(r.filters))
		for i := 0; i < len(r.filters)-1; i++ {
			tmp[i] = r.filters[i+1].Copy()
		}
		klog.V(4).Infof("bloom rows: rotated out the oldest of %d rows", len(tmp))
	}
	tmp[len(tmp)-1] = r.empty.Copy()

	r.filters = tmp
}

func (r *rows) membershipTest(key *bloom.Key) bool {
	if key == nil || r == nil {
		return false
	}
	for _, f := range r.filters {
		if f.MembershipTest(key) {
			return true
		}
	}
	return false
}

// String renders every row on its own line, oldest first.
func (r *rows) String() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, f := range r.filters {
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *rows) Config() bloom.Config {
	return r.cfg
}

// Rows returns a copy of every row, oldest first.
func (r *rows) Rows() []*bloom.BloomFilter {
	out := make([]*bloom.BloomFilter, len(r.filters))
	for i, f := range r.filters {
		out[i] = f.Copy()
	}
	return out
}

func (r *rows) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.filters)
}

// CurrentRowKeyCount is the number of keys added to the active row.
func (r *rows) CurrentRowKeyCount() int {
	return r.currentNumberOfKeys
}

func (r *rows) MaxKeysPerRow() int {
	return r.maxKeysPerRow
}

func (r *rows) copyRows() *rows {
	c := *r
	c.filters = r.Rows()
	return &c
}
