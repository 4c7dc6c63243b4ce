// internal/domain/content/dto.go
package content

type CreateContentRequest struct {
	Title         string   `json:"title" form:"title" binding:"required,max=255"`
	Slug          string   `json:"slug" form:"slug" binding:"omitempty,max=255"`
	Body          string   `json:"body" form:"body" binding:"required"`
	Excerpt       string   `json:"excerpt" form:"excerpt"`
	FeaturedImage string   `json:"featured_image" form:"featured_image"`
	Status        Status   `json:"status" form:"status" binding:"omitempty,oneof=draft published archived"`
	CategoryIDs   []string `json:"category_ids" form:"category_ids"`
	Tags          []string `json:"tags" form:"tags"`
}

type UpdateContentRequest struct {
	Title         *string   `json:"title" form:"title" binding:"omitempty,max=255"`
	Slug          *string   `json:"slug" form:"slug" binding:"omitempty,max=255"`
	Body          *string   `json:"body" form:"body"`
	Excerpt       *string   `json:"excerpt" form:"excerpt"`
	FeaturedImage *string   `json:"featured_image" form:"featured_image"`
	Status        *Status   `json:"status" form:"status" binding:"omitempty,oneof=draft published archived"`
	CategoryIDs   *[]string `json:"category_ids" form:"category_ids"`
	Tags          *[]string `json:"tags" form:"tags"`
}
