package tabkit

import (
	"reflect"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// DefaultSentinels are filter values meaning "no constraint on this field"
var DefaultSentinels = []string{"", "all"}

type filterStage struct {
	sentinels []string
}

func (f filterStage) isSentinel(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return lo.ContainsBy(f.sentinels, func(sentinel string) bool {
		return strings.EqualFold(strings.TrimSpace(s), sentinel)
	})
}

// active returns the filters that constrain the result set
func (f filterStage) active(filters map[string]Criterion) map[string]Criterion {
	return lo.PickBy(filters, func(_ string, c Criterion) bool {
		return c.Range != nil || !f.isSentinel(c.Value)
	})
}

// match returns true if the record passes every filter
func (f filterStage) match(r *Record, filters map[string]Criterion) bool {
	for field, c := range filters {
		if !r.Exists(field) {
			return false
		}
		value := r.Get(field)
		if c.Range != nil {
			n, ok := toNumber(value)
			if !ok || n < c.Range.Min || n > c.Range.Max {
				return false
			}
			continue
		}
		if !equal(value, c.Value) {
			return false
		}
	}
	return true
}

// equal compares a record value with a filter value. Numbers compare by value regardless of their go type,
// everything else must match exactly.
func equal(recordValue, filterValue any) bool {
	if rn, ok := toNumber(recordValue); ok {
		fn, ok := toNumber(filterValue)
		return ok && rn == fn
	}
	if _, ok := toNumber(filterValue); ok {
		return false
	}
	return reflect.DeepEqual(recordValue, normalize(filterValue))
}

// toNumber returns the numeric value of numeric go types. Strings are never numbers.
func toNumber(value any) (float64, bool) {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(value), true
	default:
		return 0, false
	}
}

// normalize converts a go value to the representation a record returns from Get
func normalize(value any) any {
	switch value := value.(type) {
	case nil, string, bool:
		return value
	default:
		r, err := NewRecordFrom(map[string]any{"v": value})
		if err != nil {
			return value
		}
		return r.Get("v")
	}
}
