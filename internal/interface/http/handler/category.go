package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/shopdesk/internal/application/category"
	"github.com/xiebiao/shopdesk/internal/interface/http/dto"
	"github.com/xiebiao/shopdesk/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	useCase *appcategory.CategoryUseCase
}

func NewCategoryHandler(useCase *appcategory.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{useCase: useCase}
}

// ListCategories 分类列表
// @Summary      分类列表
// @Description  按名称升序
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CategoryResponse
// @Router       /category [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	cs, err := h.useCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryResponses(cs))
}

// CreateCategory 创建分类
// @Summary      创建分类
// @Description  名称转为大写,重复返回400
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "分类名称"
// @Success      200 {object} dto.CategoryResponse
// @Failure      400 {object} response.ErrorBody "名称为空/分类已存在"
// @Router       /category [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	cat, err := h.useCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryResponse(cat))
}

// DeleteCategory 删除分类
// @Summary      删除分类
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} response.ErrorBody "分类已被商品引用"
// @Failure      404 {object} response.ErrorBody "分类不存在"
// @Router       /category/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Category deleted", nil)
}
