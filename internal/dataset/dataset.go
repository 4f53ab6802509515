package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoTabularEntry indicates an archive that holds no CSV/TSV entry.
var ErrNoTabularEntry = errors.New("archive contains no csv or tsv file")

// Dataset is the set of movie rows loaded for one session. It is never
// modified after construction; derived datasets share the session ID. A nil
// *Dataset reads as an empty one.
type Dataset struct {
	id       string
	name     string
	columns  []Field
	extra    []string
	records  []MovieRecord
	loadedAt time.Time
}

// New builds a dataset with a fresh session ID. columns lists the fields
// present in the source, in header order.
func New(name string, columns []Field, records []MovieRecord) *Dataset {
	return &Dataset{
		id:       uuid.NewString(),
		name:     name,
		columns:  append([]Field(nil), columns...),
		records:  append([]MovieRecord(nil), records...),
		loadedAt: time.Now(),
	}
}

// ID returns the session identifier.
func (d *Dataset) ID() string {
	if d == nil {
		return ""
	}
	return d.id
}

// Name returns the source name (file or archive entry).
func (d *Dataset) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Row returns the i-th record.
func (d *Dataset) Row(i int) MovieRecord { return d.records[i] }

// Rows returns a copy of all records in load order.
func (d *Dataset) Rows() []MovieRecord {
	if d == nil {
		return nil
	}
	return append([]MovieRecord(nil), d.records...)
}

// Columns returns the recognised fields in header order.
func (d *Dataset) Columns() []Field {
	if d == nil {
		return nil
	}
	return append([]Field(nil), d.columns...)
}

// ExtraColumns returns the headers that did not match a known field.
func (d *Dataset) ExtraColumns() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.extra...)
}

// HasColumn reports whether the source carried f.
func (d *Dataset) HasColumn(f Field) bool {
	if d == nil {
		return false
	}
	for _, c := range d.columns {
		if c == f {
			return true
		}
	}
	return false
}

// Filter returns a dataset of the same session holding only the rows keep
// accepts. A nil dataset filters to nil.
func (d *Dataset) Filter(keep func(MovieRecord) bool) *Dataset {
	if d == nil {
		return nil
	}
	out := *d
	out.records = make([]MovieRecord, 0, len(d.records))
	for _, r := range d.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return &out
}

// MissingColumnsError lists required columns absent from a dataset.
type MissingColumnsError struct {
	Missing []Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = f.Label()
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(names, ", "))
}

// ValidateColumns checks that every required field is present. The
// returned *MissingColumnsError lists the absent fields in required order.
func ValidateColumns(d *Dataset, required []Field) error {
	var missing []Field
	for _, f := range required {
		if !d.HasColumn(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}
