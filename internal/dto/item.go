package dto

// ItemRequest represents item create/update request
type ItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}
