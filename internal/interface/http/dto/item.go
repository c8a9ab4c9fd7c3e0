package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/shopdesk/internal/domain/item"
)

// CreateItemRequest 创建商品
type CreateItemRequest struct {
	Name       string `json:"name" binding:"required,max=200" example:"Notebook A5"`
	Brand      string `json:"brand" binding:"required,max=100" example:"Acme"`
	CategoryID uint   `json:"categoryId" binding:"required,gt=0" example:"1"`
	CostPrice  Amount `json:"costPrice" binding:"gte=0" swaggertype:"number" example:"60"`
	SalePrice  Amount `json:"salePrice" binding:"gte=0" swaggertype:"number" example:"100"`
	Quantity   int    `json:"quantity" binding:"gte=0" example:"10"`
	IsActive   *bool  `json:"isActive" example:"true"`
}

// UpdateItemRequest 部分更新商品,不传的字段保持不变
type UpdateItemRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	Brand      *string `json:"brand" binding:"omitempty,min=1,max=100"`
	CategoryID *uint   `json:"categoryId" binding:"omitempty,gt=0"`
	CostPrice  *Amount `json:"costPrice" binding:"omitempty,gte=0" swaggertype:"number"`
	SalePrice  *Amount `json:"salePrice" binding:"omitempty,gte=0" swaggertype:"number"`
	Quantity   *int    `json:"quantity" binding:"omitempty,gte=0"`
	IsActive   *bool   `json:"isActive"`
}

// StockChangeRequest 入库/出库
type StockChangeRequest struct {
	Quantity int `json:"quantity" binding:"gt=0" example:"5"`
}

// ItemCategory 商品关联的分类
type ItemCategory struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"STATIONERY"`
}

// ItemResponse 商品
type ItemResponse struct {
	ID         uint            `json:"id" example:"1"`
	Name       string          `json:"name" example:"Notebook A5"`
	Brand      string          `json:"brand" example:"Acme"`
	CategoryID *uint           `json:"categoryId" example:"1"`
	Category   *ItemCategory   `json:"category,omitempty"`
	CostPrice  decimal.Decimal `json:"costPrice" swaggertype:"number" example:"60"`
	SalePrice  decimal.Decimal `json:"salePrice" swaggertype:"number" example:"100"`
	Quantity   int             `json:"quantity" example:"10"`
	IsActive   bool            `json:"isActive" example:"true"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ItemMessageResponse 入库/出库的响应
type ItemMessageResponse struct {
	Message string       `json:"message" example:"Item restocked"`
	Item    ItemResponse `json:"item"`
}

// MovementResponse 库存流水
type MovementResponse struct {
	ID        uint      `json:"id"`
	ItemID    uint      `json:"itemId"`
	Type      string    `json:"type" example:"ORDER_DEDUCT"`
	Delta     int       `json:"delta" example:"-3"`
	Before    int       `json:"before" example:"5"`
	After     int       `json:"after" example:"2"`
	OrderID   *uint     `json:"orderId"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	resp := ItemResponse{
		ID:         it.ID,
		Name:       it.Name,
		Brand:      it.Brand,
		CategoryID: it.CategoryID,
		CostPrice:  it.CostPrice,
		SalePrice:  it.SalePrice,
		Quantity:   it.Quantity,
		IsActive:   it.IsActive,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
	if it.CategoryID != nil && it.CategoryName != "" {
		resp.Category = &ItemCategory{ID: *it.CategoryID, Name: it.CategoryName}
	}
	return resp
}

func NewItemResponses(items []*item.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
	}
	return out
}

func NewMovementResponses(ms []*item.Movement) []MovementResponse {
	out := make([]MovementResponse, len(ms))
	for i, m := range ms {
		out[i] = MovementResponse{
			ID:        m.ID,
			ItemID:    m.ItemID,
			Type:      string(m.Type),
			Delta:     m.Delta,
			Before:    m.Before,
			After:     m.After,
			OrderID:   m.OrderID,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}
