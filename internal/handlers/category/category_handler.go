// internal/handlers/category/category_handler.go
package category

import (
	"net/http"

	"cms-admin/internal/domain/category"
	"cms-admin/internal/pkg/response"
	categoryUsecase "cms-admin/internal/service/category"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *categoryUsecase.CategoryService
}

func NewCategoryHandler(categoryService *categoryUsecase.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list categories", err)
		return
	}
	response.Success(c, http.StatusOK, "categories retrieved", cats)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.categoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "category not found", err)
		return
	}
	response.Success(c, http.StatusOK, "category retrieved", cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	cat, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create category", err)
		return
	}
	response.Success(c, http.StatusCreated, "category created", cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req category.UpdateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	cat, err := h.categoryService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update category", err)
		return
	}
	response.Success(c, http.StatusOK, "category updated", cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete category", err)
		return
	}
	response.Success(c, http.StatusOK, "category deleted", nil)
}
