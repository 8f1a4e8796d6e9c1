package tabkit

import (
	"sort"
	"strings"
	"time"
)

type columnKind int

const (
	stringColumn columnKind = iota
	numericColumn
	dateColumn
)

// dateLayouts are the ISO-8601 layouts recognized as dates when sorting
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(value any) (time.Time, bool) {
	switch value := value.(type) {
	case time.Time:
		return value, true
	case string:
		s := strings.TrimSpace(value)
		// every supported layout starts with a yyyy-mm-dd date
		if len(s) < 10 || s[4] != '-' || s[7] != '-' {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// sortKey is the pre-computed comparison value of a single record
type sortKey struct {
	present bool
	str     string
	num     float64
	date    time.Time
}

// detectKind returns the comparison kind shared by every present value of the column
func detectKind(values []any, present []bool) columnKind {
	var numeric, dates, total int
	for i, v := range values {
		if !present[i] {
			continue
		}
		total++
		if _, ok := toNumber(v); ok {
			numeric++
		} else if _, ok := parseDate(v); ok {
			dates++
		}
	}
	switch {
	case total > 0 && numeric == total:
		return numericColumn
	case total > 0 && dates == total:
		return dateColumn
	default:
		return stringColumn
	}
}

// compareKeys returns -1, 0 or 1. Missing values order before present ones.
func compareKeys(kind columnKind, a, b sortKey) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return -1
	case !b.present:
		return 1
	}
	switch kind {
	case numericColumn:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case dateColumn:
		switch {
		case a.date.Before(b.date):
			return -1
		case a.date.After(b.date):
			return 1
		}
		return 0
	default:
		return strings.Compare(a.str, b.str)
	}
}

// orderBy returns a stably sorted copy of the records. The input is never reordered.
func orderBy(records Records, field string, direction SortDirection) Records {
	sorted := make(Records, len(records))
	copy(sorted, records)
	if field == "" || len(sorted) < 2 {
		return sorted
	}
	var (
		values  = make([]any, len(sorted))
		present = make([]bool, len(sorted))
	)
	for i, r := range sorted {
		present[i] = r.Exists(field) && r.Get(field) != nil
		values[i] = r.Get(field)
	}
	kind := detectKind(values, present)
	keys := make(map[*Record]sortKey, len(sorted))
	for i, r := range sorted {
		key := sortKey{present: present[i]}
		if key.present {
			switch kind {
			case numericColumn:
				key.num, _ = toNumber(values[i])
			case dateColumn:
				key.date, _ = parseDate(values[i])
			default:
				key.str = displayString(values[i])
			}
		}
		keys[r] = key
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := compareKeys(kind, keys[sorted[i]], keys[sorted[j]])
		if direction == Desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}
