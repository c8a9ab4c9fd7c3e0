package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appitem "github.com/xiebiao/shopdesk/internal/application/item"
	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/interface/http/dto"
	"github.com/xiebiao/shopdesk/pkg/response"
)

// ItemHandler 商品HTTP处理器
type ItemHandler struct {
	queryUseCase  *appitem.QueryItemUseCase
	manageUseCase *appitem.ManageItemUseCase
	stockUseCase  *appitem.AdjustStockUseCase
}

// NewItemHandler 创建商品处理器
func NewItemHandler(
	queryUseCase *appitem.QueryItemUseCase,
	manageUseCase *appitem.ManageItemUseCase,
	stockUseCase *appitem.AdjustStockUseCase,
) *ItemHandler {
	return &ItemHandler{
		queryUseCase:  queryUseCase,
		manageUseCase: manageUseCase,
		stockUseCase:  stockUseCase,
	}
}

// ListItems 商品列表
// @Summary      商品列表
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        brand      query string false "品牌"
// @Param        isActive   query bool   false "是否上架"
// @Param        categoryId query int    false "分类ID"
// @Success      200 {array}  dto.ItemResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Router       /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	filter := item.ListFilter{Brand: c.Query("brand")}

	active, err := queryBool(c, "isActive")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.IsActive = active

	categoryID, err := queryInt(c, "categoryId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if categoryID != nil {
		id := uint(*categoryID)
		filter.CategoryID = &id
	}

	items, err := h.queryUseCase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewItemResponses(items))
}

// LowStock 低库存商品
// @Summary      低库存商品
// @Description  库存小于等于阈值的商品,阈值默认取配置
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        threshold query int false "阈值"
// @Success      200 {array} dto.ItemResponse
// @Router       /items/low-stock [get]
func (h *ItemHandler) LowStock(c *gin.Context) {
	threshold, err := queryInt(c, "threshold")
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.queryUseCase.LowStock(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewItemResponses(items))
}

// GetItem 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} response.ErrorBody "商品不存在"
// @Router       /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	it, err := h.queryUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewItemResponse(it))
}

// CreateItem 创建商品
// @Summary      创建商品
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateItemRequest true "商品信息"
// @Success      201 {object} dto.ItemResponse
// @Failure      400 {object} response.ErrorBody "参数错误/分类不存在"
// @Router       /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	it, err := h.manageUseCase.Create(c.Request.Context(), appitem.CreateItemRequest{
		Name:       req.Name,
		Brand:      req.Brand,
		CategoryID: req.CategoryID,
		CostPrice:  req.CostPrice.Decimal,
		SalePrice:  req.SalePrice.Decimal,
		Quantity:   req.Quantity,
		IsActive:   req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewItemResponse(it))
}

// UpdateItem 部分更新商品
// @Summary      修改商品
// @Description  只修改传入的字段;库存变化记录ADJUST流水
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "商品ID"
// @Param        request body dto.UpdateItemRequest true "要修改的字段"
// @Success      200 {object} dto.ItemResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "商品不存在"
// @Router       /items/{id} [patch]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	it, err := h.manageUseCase.Update(c.Request.Context(), id, appitem.ItemPatch{
		Name:       req.Name,
		Brand:      req.Brand,
		CategoryID: req.CategoryID,
		CostPrice:  req.CostPrice.Ptr(),
		SalePrice:  req.SalePrice.Ptr(),
		Quantity:   req.Quantity,
		IsActive:   req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewItemResponse(it))
}

// DeleteItem 删除商品
// @Summary      删除商品
// @Description  已被订单引用的商品不能删除,只能下架
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} response.ErrorBody "商品已被订单引用"
// @Failure      404 {object} response.ErrorBody "商品不存在"
// @Router       /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Item deleted", nil)
}

// Restock 入库
// @Summary      入库
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "商品ID"
// @Param        request body dto.StockChangeRequest true "入库数量"
// @Success      200 {object} dto.ItemMessageResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "商品不存在"
// @Router       /items/{id}/restock [post]
func (h *ItemHandler) Restock(c *gin.Context) {
	h.changeStock(c, "Item restocked", h.stockUseCase.Restock)
}

// Decrement 出库
// @Summary      出库
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "商品ID"
// @Param        request body dto.StockChangeRequest true "出库数量"
// @Success      200 {object} dto.ItemMessageResponse
// @Failure      400 {object} response.ErrorBody "参数错误/库存不足"
// @Failure      404 {object} response.ErrorBody "商品不存在"
// @Router       /items/{id}/decrement [post]
func (h *ItemHandler) Decrement(c *gin.Context) {
	h.changeStock(c, "Stock updated", h.stockUseCase.Decrement)
}

func (h *ItemHandler) changeStock(c *gin.Context, message string, apply func(ctx context.Context, id uint, qty int) (*item.Item, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	it, err := apply(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, message, gin.H{"item": dto.NewItemResponse(it)})
}

// Movements 库存流水
// @Summary      库存流水
// @Description  最新的在前
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "商品ID"
// @Param        limit query int false "条数,默认100"
// @Success      200 {array}  dto.MovementResponse
// @Failure      404 {object} response.ErrorBody "商品不存在"
// @Router       /items/{id}/movements [get]
func (h *ItemHandler) Movements(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	ms, err := h.queryUseCase.Movements(c.Request.Context(), id, n)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewMovementResponses(ms))
}
