package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType 订单事件类型(同时作为消息的routing key)
type EventType string

const (
	EventCreated EventType = "order.created"
	EventUpdated EventType = "order.updated"
	EventDeleted EventType = "order.deleted"
)

// Event 订单事件
// 事务提交后发布,消费方据此关注库存变化
type Event struct {
	EventID    string          `json:"eventId"`
	Type       EventType       `json:"type"`
	OrderID    uint            `json:"orderId"`
	Total      decimal.Decimal `json:"total"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Status     Status          `json:"status"`
	Lines      []EventLine     `json:"lines"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventLine 事件中的明细
type EventLine struct {
	ItemID   uint            `json:"itemId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// NewEvent 根据订单快照创建事件
func NewEvent(typ EventType, o *Order) Event {
	lines := make([]EventLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = EventLine{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.Price}
	}
	return Event{
		EventID:    uuid.NewString(),
		Type:       typ,
		OrderID:    o.ID,
		Total:      o.Total,
		PaidAmount: o.PaidAmount,
		Status:     o.Status,
		Lines:      lines,
		OccurredAt: time.Now().UTC(),
	}
}

// ItemIDs 事件涉及的商品ID(去重)
func (e Event) ItemIDs() []uint {
	seen := make(map[uint]struct{}, len(e.Lines))
	ids := make([]uint, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	return ids
}

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
