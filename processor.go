package tabkit

import (
	"context"
	"time"
)

// Processor searches, filters, sorts and paginates in-memory collections of records.
// A Processor holds no state between calls and is safe for concurrent use.
type Processor struct {
	logger Logger
	filter filterStage
}

// NewProcessor creates a new Processor
func NewProcessor(opts ...ProcessorOpt) *Processor {
	p := &Processor{
		logger: NopLogger(),
		filter: filterStage{sentinels: DefaultSentinels},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

var defaultProcessor = NewProcessor()

// Process returns the requested page of the records matching the query
func Process(records Records, query Query) (PageResult, error) {
	return defaultProcessor.Process(context.Background(), records, query)
}

// ProcessAll returns every record matching the query in sorted order, without pagination
func ProcessAll(records Records, query Query) (Records, error) {
	return defaultProcessor.ProcessAll(context.Background(), records, query)
}

// Process returns the requested page of the records matching the query.
// The context is only used for logging.
func (p *Processor) Process(ctx context.Context, records Records, query Query) (PageResult, error) {
	start := time.Now()
	if err := query.validate(true); err != nil {
		p.logger.Warn(ctx, "invalid query", map[string]any{
			"error": err.Error(),
		})
		return PageResult{}, err
	}
	sorted := p.sorted(records, query)
	result := paginate(sorted, query.Page, query.PageSize)
	p.logger.Debug(ctx, "query processed", map[string]any{
		"records":      len(records),
		"total_items":  result.TotalItems,
		"total_pages":  result.TotalPages,
		"current_page": result.CurrentPage,
		"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
	})
	return result, nil
}

// ProcessAll returns every record matching the query in sorted order. Page and PageSize are ignored.
func (p *Processor) ProcessAll(ctx context.Context, records Records, query Query) (Records, error) {
	start := time.Now()
	if err := query.validate(false); err != nil {
		p.logger.Warn(ctx, "invalid query", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}
	sorted := p.sorted(records, query)
	p.logger.Debug(ctx, "query processed", map[string]any{
		"records":     len(records),
		"total_items": len(sorted),
		"duration":    float64(time.Since(start).Microseconds()) / float64(1000),
	})
	return sorted, nil
}

// sorted applies the search, filter and sort stages
func (p *Processor) sorted(records Records, query Query) Records {
	var (
		search  = newSearchStage(query.SearchTerm, query.SearchFields)
		filters = p.filter.active(query.Filters)
	)
	matched := records.Filter(func(r *Record, _ int) bool {
		return r != nil && search.match(r) && p.filter.match(r, filters)
	})
	return orderBy(matched, query.SortField, query.direction())
}
