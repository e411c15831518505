package model

// Page is the paginated payload expected by the admin frontend.
type Page[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
	PageNum  int `json:"page_num"`
	PageSize int `json:"page_size"`
}
