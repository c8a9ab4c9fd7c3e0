package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/shopdesk/internal/domain/order"
)

// OrderItemRequest 订单明细
type OrderItemRequest struct {
	ItemID   uint `json:"itemId" binding:"gt=0" example:"1"`
	Quantity int  `json:"quantity" binding:"gt=0" example:"3"`
}

// OrderRequest 创建/修改订单请求
// paidAmount不传时:创建按0处理,修改保留原值
type OrderRequest struct {
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaidAmount *Amount            `json:"paidAmount" binding:"omitempty,gte=0" swaggertype:"number" example:"150"`
}

// OrderLineItem 明细关联的商品
type OrderLineItem struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"Notebook"`
	Brand string `json:"brand" example:"Acme"`
}

// OrderLineResponse 订单明细
type OrderLineResponse struct {
	ID       uint            `json:"id" example:"1"`
	ItemID   uint            `json:"itemId" example:"1"`
	Quantity int             `json:"quantity" example:"3"`
	Price    decimal.Decimal `json:"price" swaggertype:"number" example:"100"`
	Item     OrderLineItem   `json:"item"`
}

// OrderResponse 订单
type OrderResponse struct {
	ID         uint                `json:"id" example:"1"`
	Total      decimal.Decimal     `json:"total" swaggertype:"number" example:"300"`
	PaidAmount decimal.Decimal     `json:"paidAmount" swaggertype:"number" example:"150"`
	Status     order.Status        `json:"status" example:"PARTIAL"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Items      []OrderLineResponse `json:"items"`
}

// OrderMessageResponse 订单写接口的响应
type OrderMessageResponse struct {
	Message string        `json:"message" example:"Order created"`
	Order   OrderResponse `json:"order"`
}

func NewOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:       l.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Price:    l.Price,
			Item:     OrderLineItem{ID: l.ItemID, Name: l.ItemName, Brand: l.ItemBrand},
		}
	}
	return OrderResponse{
		ID:         o.ID,
		Total:      o.Total,
		PaidAmount: o.PaidAmount,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Items:      lines,
	}
}

func NewOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return out
}
