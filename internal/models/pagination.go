package models

// Page is the paginated result shape shared by every list endpoint.
type Page[T any] struct {
	Results      []T `json:"results"`
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

// NewPage assembles a Page from one page of results and the unpaged total.
func NewPage[T any](results []T, page, limit, total int) *Page[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Page[T]{
		Results:      results,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}
}
