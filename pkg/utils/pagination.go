package utils

// MaxPageLimit caps a single admin listing page.
const MaxPageLimit = 100

// PaginationParams holds pagination request parameters. A zero Limit
// returns every row.
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
}

// GetPaginationParams clamps page to at least 1 and limit into
// [0, MaxPageLimit].
func GetPaginationParams(page, limit int) PaginationParams {
	p := PaginationParams{Page: page, Limit: limit}
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit < 0:
		p.Limit = 0
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	return p
}

// CalculateOffset returns the SQL offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta describes one page of a listing of totalCount rows.
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if totalCount < 0 {
		totalCount = 0
	}
	if limit <= 0 {
		return PaginationMeta{Page: 1, Limit: int(totalCount), TotalCount: totalCount, TotalPages: 1}
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
