package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/shopdesk/internal/application/report"
	"github.com/xiebiao/shopdesk/internal/domain/category"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/domain/printjob"
	"github.com/xiebiao/shopdesk/internal/domain/user"
)

// CreateCategoryRequest 名称统一转为大写
type CreateCategoryRequest struct {
	Name string `json:"name" example:"Stationery"`
}

type CategoryResponse struct {
	ID        uint      `json:"id" example:"1"`
	Name      string    `json:"name" example:"STATIONERY"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCategoryResponse(c *category.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func NewCategoryResponses(cs []*category.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cs))
	for i, c := range cs {
		out[i] = NewCategoryResponse(c)
	}
	return out
}

// CreatePrintJobRequest 创建打印任务
type CreatePrintJobRequest struct {
	CustomerName  string `json:"customerName" binding:"max=200" example:"Ann"`
	Pages         int    `json:"pages" binding:"gt=0" example:"10"`
	Rate          Amount `json:"rate" binding:"gt=0" swaggertype:"number" example:"0.25"`
	PaymentStatus string `json:"paymentStatus" binding:"omitempty,oneof=UNPAID PAID" example:"UNPAID"`
}

// UpdatePrintJobRequest 部分更新打印任务
type UpdatePrintJobRequest struct {
	CustomerName  *string `json:"customerName" binding:"omitempty,max=200"`
	Pages         *int    `json:"pages" binding:"omitempty,gt=0"`
	Rate          *Amount `json:"rate" binding:"omitempty,gt=0" swaggertype:"number"`
	PaymentStatus *string `json:"paymentStatus" binding:"omitempty,oneof=UNPAID PAID"`
}

// Patch 转换为领域层的部分更新
func (r UpdatePrintJobRequest) Patch() printjob.Patch {
	p := printjob.Patch{CustomerName: r.CustomerName, Pages: r.Pages, Rate: r.Rate.Ptr()}
	if r.PaymentStatus != nil {
		s := printjob.PaymentStatus(*r.PaymentStatus)
		p.PaymentStatus = &s
	}
	return p
}

type PrintJobResponse struct {
	ID            uint            `json:"id" example:"1"`
	CustomerName  string          `json:"customerName" example:"Ann"`
	Pages         int             `json:"pages" example:"10"`
	Rate          decimal.Decimal `json:"rate" swaggertype:"number" example:"0.25"`
	TotalAmount   decimal.Decimal `json:"totalAmount" swaggertype:"number" example:"2.5"`
	PaymentStatus string          `json:"paymentStatus" example:"UNPAID"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewPrintJobResponse(j *printjob.PrintJob) PrintJobResponse {
	return PrintJobResponse{
		ID:            j.ID,
		CustomerName:  j.CustomerName,
		Pages:         j.Pages,
		Rate:          j.Rate,
		TotalAmount:   j.TotalAmount,
		PaymentStatus: string(j.PaymentStatus),
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func NewPrintJobResponses(jobs []*printjob.PrintJob) []PrintJobResponse {
	out := make([]PrintJobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = NewPrintJobResponse(j)
	}
	return out
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type UserResponse struct {
	ID        uint      `json:"id" example:"1"`
	Username  string    `json:"username" example:"admin"`
	Name      string    `json:"name" example:"Owner"`
	Role      string    `json:"role" example:"ADMIN"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Name: u.Name, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

// LoginResponse 登录成功
type LoginResponse struct {
	Message   string       `json:"message" example:"Login successful"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// SalesReportResponse 销售报表
type SalesReportResponse struct {
	TotalOrders   int                  `json:"totalOrders"`
	TotalRevenue  decimal.Decimal      `json:"totalRevenue" swaggertype:"number"`
	TotalPaid     decimal.Decimal      `json:"totalPaid" swaggertype:"number"`
	Outstanding   decimal.Decimal      `json:"outstanding" swaggertype:"number"`
	StatusSummary map[order.Status]int `json:"statusSummary"`
	Orders        []OrderResponse      `json:"orders"`
}

func NewSalesReportResponse(r *report.SalesReport) SalesReportResponse {
	return SalesReportResponse{
		TotalOrders:   r.TotalOrders,
		TotalRevenue:  r.TotalRevenue,
		TotalPaid:     r.TotalPaid,
		Outstanding:   r.Outstanding,
		StatusSummary: r.StatusSummary,
		Orders:        NewOrderResponses(r.Orders),
	}
}

type PaymentSummaryResponse struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount" swaggertype:"number"`
}

// PrintJobReportResponse 打印任务报表
type PrintJobReportResponse struct {
	TotalJobs      int                               `json:"totalJobs"`
	TotalPages     int                               `json:"totalPages"`
	TotalRevenue   decimal.Decimal                   `json:"totalRevenue" swaggertype:"number"`
	PaymentSummary map[string]PaymentSummaryResponse `json:"paymentSummary"`
	PrintJobs      []PrintJobResponse                `json:"printJobs"`
}

func NewPrintJobReportResponse(r *report.PrintJobReport) PrintJobReportResponse {
	summary := make(map[string]PaymentSummaryResponse, len(r.PaymentSummary))
	for status, s := range r.PaymentSummary {
		summary[string(status)] = PaymentSummaryResponse{Count: s.Count, Amount: s.Amount}
	}
	return PrintJobReportResponse{
		TotalJobs:      r.TotalJobs,
		TotalPages:     r.TotalPages,
		TotalRevenue:   r.TotalRevenue,
		PaymentSummary: summary,
		PrintJobs:      NewPrintJobResponses(r.PrintJobs),
	}
}

// InventoryReportResponse 库存报表
type InventoryReportResponse struct {
	TotalItems int             `json:"totalItems"`
	TotalUnits int             `json:"totalUnits"`
	StockValue decimal.Decimal `json:"stockValue" swaggertype:"number"`
	Threshold  int             `json:"threshold"`
	LowStock   []ItemResponse  `json:"lowStock"`
	Items      []ItemResponse  `json:"items"`
}

func NewInventoryReportResponse(r *report.InventoryReport) InventoryReportResponse {
	return InventoryReportResponse{
		TotalItems: r.TotalItems,
		TotalUnits: r.TotalUnits,
		StockValue: r.StockValue,
		Threshold:  r.Threshold,
		LowStock:   NewItemResponses(r.LowStock),
		Items:      NewItemResponses(r.Items),
	}
}
