// internal/handlers/content/content_handler.go
package content

import (
	"net/http"

	"cms-admin/internal/domain/category"
	"cms-admin/internal/domain/content"
	"cms-admin/internal/middleware"
	"cms-admin/internal/pkg/response"
	categoryUsecase "cms-admin/internal/service/category"
	contentUsecase "cms-admin/internal/service/content"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContentHandler struct {
	contentService  *contentUsecase.ContentService
	categoryService *categoryUsecase.CategoryService
	logger          *zap.Logger
}

func NewContentHandler(contentService *contentUsecase.ContentService, categoryService *categoryUsecase.CategoryService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentService:  contentService,
		categoryService: categoryService,
		logger:          logger,
	}
}

// formData backs the create and edit views.
type formData struct {
	Content    *content.Content     `json:"content,omitempty"`
	Categories []*category.Category `json:"categories"`
	Statuses   []content.Status     `json:"statuses"`
}

var statuses = []content.Status{content.StatusDraft, content.StatusPublished, content.StatusArchived}

// List handles GET /contents?search=&status=
func (h *ContentHandler) List(c *gin.Context) {
	var filter content.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ValidationError(c, "invalid query", err)
		return
	}

	items, err := h.contentService.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, "failed to list contents", err)
		return
	}

	response.Success(c, http.StatusOK, "contents retrieved", gin.H{
		"contents": items,
		"total":    len(items),
		"filter":   filter,
	})
}

// NewForm handles GET /contents/new
func (h *ContentHandler) NewForm(c *gin.Context) {
	cats, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to load categories", err)
		return
	}

	response.Success(c, http.StatusOK, "new content", formData{Categories: cats, Statuses: statuses})
}

// Create handles POST /contents/new. The author is the signed-in user.
func (h *ContentHandler) Create(c *gin.Context) {
	var req content.CreateContentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	s := middleware.MustGetSession(c)
	item, err := h.contentService.Create(c.Request.Context(), s.User, &req)
	if err != nil {
		h.logger.Warn("content create rejected", zap.String("username", s.Username()), zap.Error(err))
		response.FromError(c, "failed to create content", err)
		return
	}

	response.Success(c, http.StatusCreated, "content created", item)
}

// EditForm handles GET /contents/edit/:id
func (h *ContentHandler) EditForm(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := h.contentService.Get(ctx, c.Param("id"))
	if err != nil {
		response.FromError(c, "content not found", err)
		return
	}

	cats, err := h.categoryService.List(ctx)
	if err != nil {
		response.FromError(c, "failed to load categories", err)
		return
	}

	response.Success(c, http.StatusOK, "edit content", formData{Content: item, Categories: cats, Statuses: statuses})
}

// Update handles PUT /contents/edit/:id
func (h *ContentHandler) Update(c *gin.Context) {
	var req content.UpdateContentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	item, err := h.contentService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update content", err)
		return
	}

	response.Success(c, http.StatusOK, "content updated", item)
}

// Delete handles DELETE /contents/edit/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.contentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete content", err)
		return
	}

	response.Success(c, http.StatusOK, "content deleted", nil)
}
