package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/shopdesk/internal/application/order"
	"github.com/xiebiao/shopdesk/internal/application/report"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/interface/http/dto"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
	"github.com/xiebiao/shopdesk/pkg/response"
)

// OrderHandler 订单HTTP处理器
// 写接口(创建/修改/删除)的所有业务失败统一返回400,只有服务端错误是500
type OrderHandler struct {
	createUseCase *apporder.CreateOrderUseCase
	updateUseCase *apporder.UpdateOrderUseCase
	deleteUseCase *apporder.DeleteOrderUseCase
	queryUseCase  *apporder.QueryOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	updateUseCase *apporder.UpdateOrderUseCase,
	deleteUseCase *apporder.DeleteOrderUseCase,
	queryUseCase *apporder.QueryOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		queryUseCase:  queryUseCase,
	}
}

func toLineInputs(items []dto.OrderItemRequest) []apporder.LineInput {
	lines := make([]apporder.LineInput, len(items))
	for i, it := range items {
		lines[i] = apporder.LineInput{ItemID: it.ItemID, Quantity: it.Quantity}
	}
	return lines
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  校验并扣减每个明细的库存,全部成功才提交
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.OrderRequest true "订单明细"
// @Success      200 {object} dto.OrderMessageResponse
// @Failure      400 {object} response.ErrorBody "参数错误/商品不存在/库存不足"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, dto.BindError(err))
		return
	}

	o, err := h.createUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		Lines:      toLineInputs(req.Items),
		PaidAmount: req.PaidAmount.Ptr(),
	})
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err)
		return
	}

	response.Message(c, "Order created", gin.H{"order": dto.NewOrderResponse(o)})
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  按创建时间倒序,包含明细和商品信息
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "PAID | PARTIAL | UNPAID"
// @Param        startDate query string false "RFC3339或YYYY-MM-DD"
// @Param        endDate   query string false "RFC3339或YYYY-MM-DD"
// @Success      200 {array}  dto.OrderResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filter order.ListFilter
	if s := c.Query("status"); s != "" {
		filter.Status = order.Status(s)
		if !filter.Status.Valid() {
			response.Error(c, apperrors.New(apperrors.ErrCodeInvalidParams, "status must be one of PAID, PARTIAL, UNPAID"))
			return
		}
	}
	if c.Query("startDate") != "" || c.Query("endDate") != "" {
		r, err := report.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.From, filter.To = r.From, r.To
	}

	orders, err := h.queryUseCase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponses(orders))
}

// GetOrder 订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} dto.OrderResponse
// @Failure      400 {object} response.ErrorBody "ID非法"
// @Failure      404 {object} response.ErrorBody "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	o, err := h.queryUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponse(o))
}

// UpdateOrder 修改订单
// @Summary      修改订单
// @Description  先归还原明细的库存,再按新明细扣减;paidAmount不传时保留原值
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int              true "订单ID"
// @Param        request body dto.OrderRequest true "新的订单明细"
// @Success      200 {object} dto.OrderMessageResponse
// @Failure      400 {object} response.ErrorBody "参数错误/订单不存在/库存不足"
// @Router       /orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err)
		return
	}

	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, dto.BindError(err))
		return
	}

	o, err := h.updateUseCase.Execute(c.Request.Context(), apporder.UpdateOrderRequest{
		OrderID:    id,
		Lines:      toLineInputs(req.Items),
		PaidAmount: req.PaidAmount.Ptr(),
	})
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err)
		return
	}

	response.Message(c, "Order updated", gin.H{"order": dto.NewOrderResponse(o)})
}

// DeleteOrder 删除订单
// @Summary      删除订单
// @Description  删除订单及明细,并归还库存
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} response.ErrorBody "订单不存在"
// @Router       /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err)
		return
	}

	response.Message(c, "Order deleted and stock restored", nil)
}
