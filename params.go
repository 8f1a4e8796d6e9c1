package tabkit

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

const (
	// DefaultPage is the page used when the page parameter is absent
	DefaultPage = 1
	// DefaultPageSize is the page size used when the page_size parameter is absent
	DefaultPageSize = 10

	filterParamPrefix = "filter."
	rangeParamPrefix  = "range."
)

// QueryFromParams translates url parameters sent by a table view into a query.
//
//	search=beigi&search_fields=name,brand&filter.status=Available&range.price=10,200&sort=price&direction=desc&page=2&page_size=25
//
// Sentinel filter values ("" and "all") are dropped so the query has no entry for that field.
// Filter values that parse as numbers or booleans are decoded as such.
func QueryFromParams(params url.Values, sentinels ...string) (Query, error) {
	if len(sentinels) == 0 {
		sentinels = DefaultSentinels
	}
	stage := filterStage{sentinels: sentinels}
	q := Query{
		SearchTerm:    params.Get("search"),
		SortField:     params.Get("sort"),
		SortDirection: SortDirection(strings.ToLower(params.Get("direction"))),
		Page:          DefaultPage,
		PageSize:      DefaultPageSize,
	}
	if fields := params.Get("search_fields"); fields != "" {
		q.SearchFields = lo.Filter(lo.Map(strings.Split(fields, ","), func(f string, _ int) string {
			return strings.TrimSpace(f)
		}), func(f string, _ int) bool {
			return f != ""
		})
	}
	if page := params.Get("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err != nil {
			return Query{}, invalidQuery("Page", page, "page must be an integer")
		}
		q.Page = p
	}
	if pageSize := params.Get("page_size"); pageSize != "" {
		p, err := strconv.Atoi(pageSize)
		if err != nil {
			return Query{}, invalidQuery("PageSize", pageSize, "page_size must be an integer")
		}
		q.PageSize = p
	}
	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		switch {
		case strings.HasPrefix(key, filterParamPrefix):
			field := strings.TrimPrefix(key, filterParamPrefix)
			if field == "" || stage.isSentinel(value) {
				continue
			}
			if q.Filters == nil {
				q.Filters = map[string]Criterion{}
			}
			q.Filters[field] = Eq(parseParamValue(value))
		case strings.HasPrefix(key, rangeParamPrefix):
			field := strings.TrimPrefix(key, rangeParamPrefix)
			if field == "" || stage.isSentinel(value) {
				continue
			}
			bounds := strings.Split(value, ",")
			if len(bounds) != 2 {
				return Query{}, invalidQuery("Filters", key, "range must be formatted as min,max")
			}
			min, err := cast.ToFloat64E(strings.TrimSpace(bounds[0]))
			if err != nil {
				return Query{}, invalidQuery("Filters", key, "range min must be a number")
			}
			max, err := cast.ToFloat64E(strings.TrimSpace(bounds[1]))
			if err != nil {
				return Query{}, invalidQuery("Filters", key, "range max must be a number")
			}
			if q.Filters == nil {
				q.Filters = map[string]Criterion{}
			}
			q.Filters[field] = Between(min, max)
		}
	}
	return q, nil
}

// parseParamValue decodes numbers and booleans, everything else stays a string
func parseParamValue(value string) any {
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	if value == "true" || value == "false" {
		return value == "true"
	}
	return value
}
