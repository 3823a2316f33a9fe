package repository

// WithID filters by the "id" column.
func WithID(id int64) Option {
	return WithCondition("id", id)
}

// WithIDIn filters by the "id" column using IN.
func WithIDIn(ids []int64) Option {
	return WithConditionIn("id", ids)
}

// WithPagination returns limit and offset options for a page.
func WithPagination(limit, offset int) []Option {
	return []Option{WithLimit(limit), WithOffset(offset)}
}

// WithPage returns limit and offset options for a 1-based page number.
func WithPage(page, pageSize int) []Option {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return WithPagination(pageSize, (page-1)*pageSize)
}

// WithBestMatchFirst orders by the projected relevance score, highest first.
// It only makes sense when the score column is selected.
func WithBestMatchFirst() Option {
	return WithOrderDesc("score")
}
