package resource

import "filevault/internal/domain"

type CreateRequest struct {
	Name     string
	Type     domain.ResourceType
	ParentID *int64
}

type UpdateRequest struct {
	Name     *string `json:"name"`
	ParentID *int64  `json:"parentId"`
}

// Page is the shape of a list response.
type Page struct {
	TotalItems  int64             `json:"totalItems"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Items       []domain.Resource `json:"items"`
}
