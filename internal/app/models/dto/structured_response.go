package dto

import "github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"

// ListResponse is the paginated list envelope
type ListResponse struct {
	Success bool        `json:"success" example:"true"`
	Count   int         `json:"count" example:"10"`
	Total   int64       `json:"total" example:"42"`
	Pages   int         `json:"pages" example:"5"`
	Data    interface{} `json:"data"`
}

// PaginationInfo is the page the client asked for
type PaginationInfo struct {
	Page  int `json:"page" example:"1"`
	Limit int `json:"limit" example:"10"`
}

// NewListResponse builds the list envelope for one page of items
func NewListResponse(items interface{}, count int, total int64, limit int) ListResponse {
	return ListResponse{
		Success: true,
		Count:   count,
		Total:   total,
		Pages:   helpers.TotalPages(total, limit),
		Data:    items,
	}
}
