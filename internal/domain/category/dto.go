// internal/domain/category/dto.go
package category

type CreateCategoryRequest struct {
	Name        string  `json:"name" form:"name" binding:"required,max=255"`
	Slug        string  `json:"slug" form:"slug" binding:"omitempty,max=255"`
	Description string  `json:"description" form:"description"`
	ParentID    *string `json:"parent_id" form:"parent_id"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" form:"name" binding:"omitempty,max=255"`
	Slug        *string `json:"slug" form:"slug" binding:"omitempty,max=255"`
	Description *string `json:"description" form:"description"`
	ParentID    *string `json:"parent_id" form:"parent_id"`
}
