package tabkit

import (
	"fmt"
	"strings"

	"github.com/autom8ter/tabkit/errors"
	"github.com/autom8ter/tabkit/util"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// IDField is the identity field of a record
const IDField = "id"

// SortDirection indicates whether results should be sorted in ascending or descending order
type SortDirection string

const (
	// Asc indicates ascending order
	Asc SortDirection = "asc"
	// Desc indicates descending order
	Desc SortDirection = "desc"
)

// Range is an inclusive numeric range
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Criterion is the accepted value (or value range) of a filtered field.
// When Range is set, Value is ignored.
type Criterion struct {
	// Value is the single accepted value of the field
	Value any `json:"value,omitempty"`
	// Range is the accepted inclusive numeric range of the field
	Range *Range `json:"range,omitempty"`
}

// Eq returns a criterion accepting a single value
func Eq(value any) Criterion {
	return Criterion{Value: value}
}

// Between returns a criterion accepting numeric values within [min, max]
func Between(min, max float64) Criterion {
	return Criterion{Range: &Range{Min: min, Max: max}}
}

// Query is the full set of view parameters (search, filter, sort, page) for a single render pass.
type Query struct {
	// SearchTerm is matched as a case-insensitive substring. Empty matches every record.
	SearchTerm string `json:"search_term,omitempty"`
	// SearchFields restricts the search to the given fields. Empty searches every string field.
	SearchFields []string `json:"search_fields,omitempty"`
	// Filters maps a field to its accepted value or value range
	Filters map[string]Criterion `json:"filters,omitempty"`
	// SortField is the field to sort on. Empty keeps the input order.
	SortField string `json:"sort_field,omitempty"`
	// SortDirection is the sort direction (default: asc)
	SortDirection SortDirection `json:"sort_direction,omitempty" validate:"omitempty,oneof=asc desc"`
	// Page is the 1-based page to return
	Page int `json:"page" validate:"gte=1"`
	// PageSize is the maximum number of records on a page
	PageSize int `json:"page_size" validate:"gte=1"`
}

// InvalidQueryError is returned when a query cannot be processed. It indicates a caller bug.
type InvalidQueryError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// IsInvalidQuery returns true if the error is (or wraps) an InvalidQueryError
func IsInvalidQuery(err error) bool {
	var target *InvalidQueryError
	return errors.As(err, &target)
}

func invalidQuery(field string, value any, reason string) error {
	return errors.Wrap(&InvalidQueryError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}, errors.Validation, "invalid query: %s: %s", field, reason)
}

// validate checks the query. Pagination is only checked when paginate is true.
func (q Query) validate(paginate bool) error {
	if err := util.ValidateStruct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				if !paginate && lo.Contains([]string{"Page", "PageSize"}, v.Field()) {
					continue
				}
				return invalidQuery(v.Field(), v.Value(), fmt.Sprintf("failed '%s' constraint", v.Tag()))
			}
		} else {
			return invalidQuery("query", nil, err.Error())
		}
	}
	for field, c := range q.Filters {
		if strings.TrimSpace(field) == "" {
			return invalidQuery("Filters", field, "empty filter field")
		}
		if c.Range != nil && c.Range.Min > c.Range.Max {
			return invalidQuery("Filters", field, "range min is greater than max")
		}
	}
	return nil
}

// Validate returns an InvalidQueryError if the query cannot be used to fetch a page
func (q Query) Validate() error {
	return q.validate(true)
}

func (q Query) direction() SortDirection {
	if q.SortDirection == "" {
		return Asc
	}
	return q.SortDirection
}
