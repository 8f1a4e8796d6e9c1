package tabkit

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/autom8ter/tabkit/errors"
	"github.com/autom8ter/tabkit/util"
	"github.com/nqd/flat"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Record is a single row of tabular data (a product, staff member, invoice...) stored as a JSON object
type Record struct {
	result gjson.Result
}

// UnmarshalJSON satisfies the json Unmarshaler interface
func (r *Record) UnmarshalJSON(bytes []byte) error {
	rec, err := NewRecordFromBytes(bytes)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

// MarshalJSON satisfies the json Marshaler interface
func (r *Record) MarshalJSON() ([]byte, error) {
	return r.Bytes(), nil
}

// NewRecord creates a new empty record
func NewRecord() *Record {
	return &Record{
		result: gjson.Parse("{}"),
	}
}

// NewRecordFromBytes creates a new record from the given json bytes
func NewRecordFromBytes(json []byte) (*Record, error) {
	if !gjson.ValidBytes(json) {
		return nil, errors.New(errors.Validation, "invalid json: %s", string(json))
	}
	r := &Record{
		result: gjson.ParseBytes(json),
	}
	if !r.result.IsObject() {
		return nil, errors.New(errors.Validation, "record must be a json object")
	}
	return r, nil
}

// NewRecordFrom creates a new record from the given value - the value must be json compatible
func NewRecordFrom(value any) (*Record, error) {
	bits, err := json.Marshal(value)
	if err != nil {
		return nil, errors.New(errors.Validation, "failed to json encode value: %#v", value)
	}
	return NewRecordFromBytes(bits)
}

// String returns the record as a json string
func (r *Record) String() string {
	if r.result.Raw == "" {
		return "{}"
	}
	return r.result.Raw
}

// Bytes returns the record as json bytes
func (r *Record) Bytes() []byte {
	return []byte(r.String())
}

// Value returns the record as a map
func (r *Record) Value() map[string]any {
	return cast.ToStringMap(r.result.Value())
}

// Clone allocates a new record with identical values
func (r *Record) Clone() *Record {
	return &Record{result: gjson.Parse(r.String())}
}

// Get gets a field on the record. Get has GJSON syntax support and supports dot notation
func (r *Record) Get(field string) any {
	return r.result.Get(field).Value()
}

// Exists returns true if the field is present on the record
func (r *Record) Exists(field string) bool {
	return r.result.Get(field).Exists()
}

// GetString gets a string field value on the record
func (r *Record) GetString(field string) string {
	return r.result.Get(field).String()
}

// GetFloat gets a float field value on the record
func (r *Record) GetFloat(field string) float64 {
	return cast.ToFloat64(r.Get(field))
}

// ID returns the records identity field
func (r *Record) ID() any {
	return r.Get(IDField)
}

// Set sets a field on the record. Dot notation is supported.
func (r *Record) Set(field string, val any) error {
	return r.SetAll(map[string]any{
		field: val,
	})
}

// SetAll sets all fields on the record. Dot notation is supported.
func (r *Record) SetAll(values map[string]any) error {
	for k, v := range values {
		result, err := sjson.Set(r.String(), k, v)
		if err != nil {
			return errors.Wrap(err, errors.Validation, "failed to set field: %s", k)
		}
		r.result = gjson.Parse(result)
	}
	return nil
}

// Del deletes fields from the record
func (r *Record) Del(fields ...string) error {
	for _, field := range fields {
		result, err := sjson.Delete(r.String(), field)
		if err != nil {
			return err
		}
		r.result = gjson.Parse(result)
	}
	return nil
}

// Flatten returns the records leaf values keyed by their dot notation path
func (r *Record) Flatten() map[string]any {
	flattened, err := flat.Flatten(r.Value(), nil)
	if err != nil {
		return map[string]any{}
	}
	return flattened
}

// FieldPaths returns the sorted paths to fields & nested fields in dot notation format
func (r *Record) FieldPaths() []string {
	paths := lo.Keys(r.Flatten())
	sort.Strings(paths)
	return paths
}

// Scan scans the json record into the value
func (r *Record) Scan(value any) error {
	return util.Decode(r.Value(), value)
}

// Encode encodes the json record to the io writer
func (r *Record) Encode(w io.Writer) error {
	_, err := w.Write(r.Bytes())
	if err != nil {
		return errors.Wrap(err, 0, "failed to encode record")
	}
	return nil
}

// Records is an ordered collection of records
type Records []*Record

// RecordsFromBytes decodes a json or yaml array of objects into records
func RecordsFromBytes(content []byte) (Records, error) {
	jsonContent, err := util.YAMLToJSON(content)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to decode records")
	}
	parsed := gjson.ParseBytes(jsonContent)
	if !parsed.IsArray() {
		return nil, errors.New(errors.Validation, "records must be a json array")
	}
	var records Records
	for i, element := range parsed.Array() {
		if !element.IsObject() {
			return nil, errors.New(errors.Validation, "record %v is not a json object", i)
		}
		records = append(records, &Record{result: element})
	}
	if records == nil {
		records = Records{}
	}
	return records, nil
}

// NewRecordsFrom creates records from a slice of json compatible values
func NewRecordsFrom[T any](values []T) (Records, error) {
	records := make(Records, 0, len(values))
	for _, v := range values {
		r, err := NewRecordFrom(v)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// Slice slices the records into a subarray of records
func (records Records) Slice(start, end int) Records {
	return lo.Slice[*Record](records, start, end)
}

// Filter applies the filter function against the records
func (records Records) Filter(predicate func(record *Record, i int) bool) Records {
	return lo.Filter[*Record](records, predicate)
}

// Map applies the mapper function against the records
func (records Records) Map(mapper func(t *Record, i int) *Record) Records {
	return lo.Map[*Record, *Record](records, mapper)
}

// ForEach applies the function to each record in the records
func (records Records) ForEach(fn func(next *Record, i int)) {
	lo.ForEach[*Record](records, fn)
}

// IDs returns the identity field of each record
func (records Records) IDs() []any {
	return lo.Map[*Record, any](records, func(r *Record, _ int) any {
		return r.ID()
	})
}

// FieldPaths returns the union of every records field paths in first-seen order
func (records Records) FieldPaths() []string {
	var paths []string
	for _, r := range records {
		paths = append(paths, r.FieldPaths()...)
	}
	return lo.Uniq(paths)
}

// MarshalJSON encodes the records as a json array. A nil collection is encoded as an empty array.
func (records Records) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		raw = append(raw, r.Bytes())
	}
	return json.Marshal(raw)
}
