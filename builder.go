package tabkit

// QueryBuilder is a utility for creating queries via chainable methods
type QueryBuilder struct {
	query Query
}

// NewQueryBuilder creates a new QueryBuilder instance on the first page with the given page size
func NewQueryBuilder(pageSize int) *QueryBuilder {
	return &QueryBuilder{query: Query{Page: 1, PageSize: pageSize}}
}

// Query returns the built query
func (q *QueryBuilder) Query() Query {
	query := q.query
	query.SearchFields = append([]string(nil), q.query.SearchFields...)
	if q.query.Filters != nil {
		query.Filters = make(map[string]Criterion, len(q.query.Filters))
		for k, v := range q.query.Filters {
			query.Filters[k] = v
		}
	}
	return query
}

// Search sets the search term and (optionally) the fields it is matched against
func (q *QueryBuilder) Search(term string, fields ...string) *QueryBuilder {
	q.query.SearchTerm = term
	q.query.SearchFields = append(q.query.SearchFields, fields...)
	return q
}

// Where adds a criterion for the field
func (q *QueryBuilder) Where(field string, criterion Criterion) *QueryBuilder {
	if q.query.Filters == nil {
		q.query.Filters = map[string]Criterion{}
	}
	q.query.Filters[field] = criterion
	return q
}

// Filter accepts a single value for the field
func (q *QueryBuilder) Filter(field string, value any) *QueryBuilder {
	return q.Where(field, Eq(value))
}

// Range accepts numeric values within [min, max] for the field
func (q *QueryBuilder) Range(field string, min, max float64) *QueryBuilder {
	return q.Where(field, Between(min, max))
}

// OrderBy sorts the results by the field in the given direction
func (q *QueryBuilder) OrderBy(field string, direction SortDirection) *QueryBuilder {
	q.query.SortField = field
	q.query.SortDirection = direction
	return q
}

// Page sets the page to return
func (q *QueryBuilder) Page(page int) *QueryBuilder {
	q.query.Page = page
	return q
}

// PageSize sets the maximum number of records on a page
func (q *QueryBuilder) PageSize(pageSize int) *QueryBuilder {
	q.query.PageSize = pageSize
	return q
}
