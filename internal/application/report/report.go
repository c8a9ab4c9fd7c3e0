// Package report 只读报表
// 所有金额都在持久化数据上用decimal重新汇总,不做缓存
package report

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/domain/printjob"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate 日期参数格式错误
var ErrInvalidDate = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid date, expected YYYY-MM-DD or RFC3339")

// DateRange 报表时间范围 [From, To)
// 为nil表示不限
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange 解析startDate/endDate
// 只有日期的endDate包含当天(转换为第二天0点)
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange

	if s := strings.TrimSpace(start); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return r, err
		}
		r.From = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return r, err
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		r.To = &t
	}
	return r, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false, ErrInvalidDate
	}
	return t, true, nil
}

// SalesReport 销售报表
type SalesReport struct {
	TotalOrders   int
	TotalRevenue  decimal.Decimal
	TotalPaid     decimal.Decimal
	Outstanding   decimal.Decimal
	StatusSummary map[order.Status]int
	Orders        []*order.Order
}

// PaymentSummary 按付款状态汇总
type PaymentSummary struct {
	Count  int
	Amount decimal.Decimal
}

// PrintJobReport 打印任务报表
type PrintJobReport struct {
	TotalJobs      int
	TotalPages     int
	TotalRevenue   decimal.Decimal
	PaymentSummary map[printjob.PaymentStatus]*PaymentSummary
	PrintJobs      []*printjob.PrintJob
}

// InventoryReport 库存报表
type InventoryReport struct {
	TotalItems int
	TotalUnits int
	StockValue decimal.Decimal
	Threshold  int
	LowStock   []*item.Item
	Items      []*item.Item
}

// ReportUseCase 报表查询
type ReportUseCase struct {
	orders    order.Repository
	printJobs printjob.Repository
	items     item.Repository
	threshold int
}

func NewReportUseCase(orders order.Repository, printJobs printjob.Repository, items item.Repository, cfg *config.Config) *ReportUseCase {
	return &ReportUseCase{
		orders:    orders,
		printJobs: printJobs,
		items:     items,
		threshold: cfg.Inventory.LowStockThreshold,
	}
}

// Sales 时间范围内的订单汇总
// Outstanding按订单累加max(total-paid, 0),多付的订单不抵扣其他订单
func (uc *ReportUseCase) Sales(ctx context.Context, r DateRange) (*SalesReport, error) {
	orders, err := uc.orders.List(ctx, order.ListFilter{From: r.From, To: r.To})
	if err != nil {
		return nil, err
	}

	rep := &SalesReport{
		TotalOrders: len(orders),
		StatusSummary: map[order.Status]int{
			order.StatusUnpaid:  0,
			order.StatusPartial: 0,
			order.StatusPaid:    0,
		},
		Orders: orders,
	}
	for _, o := range orders {
		rep.TotalRevenue = rep.TotalRevenue.Add(o.Total)
		rep.TotalPaid = rep.TotalPaid.Add(o.PaidAmount)
		rep.Outstanding = rep.Outstanding.Add(o.Outstanding())
		rep.StatusSummary[o.Status]++
	}
	return rep, nil
}

// PrintJobs 时间范围内的打印任务汇总
func (uc *ReportUseCase) PrintJobs(ctx context.Context, r DateRange) (*PrintJobReport, error) {
	jobs, err := uc.printJobs.List(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}

	rep := &PrintJobReport{
		TotalJobs: len(jobs),
		PaymentSummary: map[printjob.PaymentStatus]*PaymentSummary{
			printjob.PaymentUnpaid: {},
			printjob.PaymentPaid:   {},
		},
		PrintJobs: jobs,
	}
	for _, j := range jobs {
		rep.TotalPages += j.Pages
		rep.TotalRevenue = rep.TotalRevenue.Add(j.TotalAmount)

		s, ok := rep.PaymentSummary[j.PaymentStatus]
		if !ok {
			s = &PaymentSummary{}
			rep.PaymentSummary[j.PaymentStatus] = s
		}
		s.Count++
		s.Amount = s.Amount.Add(j.TotalAmount)
	}
	return rep, nil
}

// Inventory 当前库存汇总
// 报表的低库存口径是 quantity < threshold,和低库存接口(<=)不同
func (uc *ReportUseCase) Inventory(ctx context.Context) (*InventoryReport, error) {
	items, err := uc.items.List(ctx, item.ListFilter{})
	if err != nil {
		return nil, err
	}

	rep := &InventoryReport{
		TotalItems: len(items),
		Threshold:  uc.threshold,
		LowStock:   make([]*item.Item, 0),
		Items:      items,
	}
	for _, it := range items {
		rep.TotalUnits += it.Quantity
		rep.StockValue = rep.StockValue.Add(it.StockValue())
		if it.Quantity < uc.threshold {
			rep.LowStock = append(rep.LowStock, it)
		}
	}
	return rep, nil
}
