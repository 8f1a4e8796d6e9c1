package tabkit

// PageResult is a page of records plus the pagination metadata needed to render a table
type PageResult struct {
	// Items are the records on the current page
	Items Records `json:"items"`
	// TotalItems is the number of records passing the search and filters
	TotalItems int `json:"total_items"`
	// TotalPages is the number of pages needed to show every matching record
	TotalPages int `json:"total_pages"`
	// CurrentPage is the requested page clamped to [1, TotalPages]
	CurrentPage int `json:"current_page"`
	// PageSize is the maximum number of records on a page
	PageSize int `json:"page_size"`
}

// Offset returns the index of the first item of the page within the matching records
func (p PageResult) Offset() int {
	return (p.CurrentPage - 1) * p.PageSize
}

// HasNextPage returns true if there is a page after the current page
func (p PageResult) HasNextPage() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevPage returns true if there is a page before the current page
func (p PageResult) HasPrevPage() bool {
	return p.CurrentPage > 1
}

// paginate slices the page out of the sorted records
func paginate(records Records, page, pageSize int) PageResult {
	total := len(records)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	current := 1
	if totalPages > 0 {
		current = page
		if current > totalPages {
			current = totalPages
		}
		if current < 1 {
			current = 1
		}
	}
	items := Records{}
	if total > 0 {
		// current <= totalPages so start never exceeds total
		start := (current - 1) * pageSize
		end := total
		if pageSize < total-start {
			end = start + pageSize
		}
		items = append(items, records[start:end]...)
	}
	return PageResult{
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: current,
		PageSize:    pageSize,
	}
}
