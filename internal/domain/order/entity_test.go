package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  Status
	}{
		{"未付款", "300", "0", StatusUnpaid},
		{"负数视为未付款", "300", "-1", StatusUnpaid},
		{"部分付款", "300", "150", StatusPartial},
		{"刚好付清", "300", "300", StatusPaid},
		{"多付也算付清", "100", "150", StatusPaid},
		{"零元订单未付款", "0", "0", StatusUnpaid},
		{"零元订单付款后为已付", "0", "10", StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(d(tt.total), d(tt.paid)))
		})
	}
}

func TestNewOrder(t *testing.T) {
	o := NewOrder([]Line{
		{ItemID: 1, Quantity: 3, Price: d("100")},
		{ItemID: 2, Quantity: 2, Price: d("12.50")},
	}, d("150"))

	assert.True(t, d("325").Equal(o.Total))
	assert.Equal(t, StatusPartial, o.Status)
	assert.True(t, d("175").Equal(o.Outstanding()))
}

func TestOrder_ReplaceLines(t *testing.T) {
	o := NewOrder([]Line{{ItemID: 1, Quantity: 3, Price: d("100")}}, d("150"))
	o.ID = 9

	t.Run("不传已付金额时保留原值", func(t *testing.T) {
		o.ReplaceLines([]Line{{ItemID: 1, Quantity: 1, Price: d("100")}}, nil)

		assert.True(t, d("100").Equal(o.Total))
		assert.True(t, d("150").Equal(o.PaidAmount))
		assert.Equal(t, StatusPaid, o.Status)
		assert.Equal(t, uint(9), o.Lines[0].OrderID)
		assert.True(t, o.Outstanding().IsZero())
	})

	t.Run("传入已付金额时覆盖", func(t *testing.T) {
		zero := decimal.Zero
		o.ReplaceLines([]Line{{ItemID: 1, Quantity: 2, Price: d("100")}}, &zero)

		assert.True(t, d("200").Equal(o.Total))
		assert.Equal(t, StatusUnpaid, o.Status)
	})
}

func TestOrder_MoneyRounding(t *testing.T) {
	t.Run("已付金额先取两位小数再推导状态", func(t *testing.T) {
		o := NewOrder([]Line{{ItemID: 1, Quantity: 1, Price: d("100")}}, d("99.999"))

		assert.True(t, d("100").Equal(o.PaidAmount))
		assert.Equal(t, StatusPaid, o.Status)
	})

	t.Run("舍去后仍不足为部分付款", func(t *testing.T) {
		o := NewOrder([]Line{{ItemID: 1, Quantity: 1, Price: d("100")}}, d("99.994"))

		assert.True(t, d("99.99").Equal(o.PaidAmount))
		assert.Equal(t, StatusPartial, o.Status)
	})

	t.Run("明细单价和总价同样取整", func(t *testing.T) {
		o := NewOrder([]Line{{ItemID: 1, Quantity: 3, Price: d("10.005")}}, decimal.Zero)

		assert.True(t, d("10.01").Equal(o.Lines[0].Price))
		assert.True(t, d("30.03").Equal(o.Total))
	})

	t.Run("修改时传入的已付金额也取整", func(t *testing.T) {
		o := NewOrder([]Line{{ItemID: 1, Quantity: 1, Price: d("50")}}, decimal.Zero)
		paid := d("49.996")
		o.ReplaceLines([]Line{{ItemID: 1, Quantity: 1, Price: d("50")}}, &paid)

		assert.True(t, d("50").Equal(o.PaidAmount))
		assert.Equal(t, StatusPaid, o.Status)
	})
}

func TestNewEvent(t *testing.T) {
	o := NewOrder([]Line{
		{ItemID: 1, Quantity: 1, Price: d("5")},
		{ItemID: 2, Quantity: 1, Price: d("5")},
		{ItemID: 1, Quantity: 2, Price: d("5")},
	}, decimal.Zero)
	o.ID = 4

	evt := NewEvent(EventCreated, o)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, uint(4), evt.OrderID)
	assert.Len(t, evt.Lines, 3)
	assert.Equal(t, []uint{1, 2}, evt.ItemIDs())
}
