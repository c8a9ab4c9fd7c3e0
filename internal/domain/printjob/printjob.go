package printjob

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// PaymentStatus 打印任务付款状态
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

// PrintJob 打印任务
// TotalAmount = Pages × Rate，页数或单价变化时重新计算
type PrintJob struct {
	ID            uint
	CustomerName  string
	Pages         int
	Rate          decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var (
	ErrPrintJobNotFound = apperrors.New(apperrors.ErrCodePrintJobNotFound, "Print job not found")
	ErrInvalidPages     = apperrors.New(apperrors.ErrCodeInvalidParams, "Pages must be greater than 0")
	ErrInvalidRate      = apperrors.New(apperrors.ErrCodeInvalidParams, "Rate must be greater than 0")
	ErrInvalidStatus    = apperrors.New(apperrors.ErrCodeInvalidParams, "Payment status must be UNPAID or PAID")
)

// New 创建打印任务，状态为空时默认UNPAID
func New(customer string, pages int, rate decimal.Decimal, status PaymentStatus) (*PrintJob, error) {
	if status == "" {
		status = PaymentUnpaid
	}
	if err := validate(pages, rate, status); err != nil {
		return nil, err
	}
	now := time.Now()
	return &PrintJob{
		CustomerName:  customer,
		Pages:         pages,
		Rate:          rate,
		TotalAmount:   total(pages, rate),
		PaymentStatus: status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Patch 打印任务的部分更新
type Patch struct {
	CustomerName  *string
	Pages         *int
	Rate          *decimal.Decimal
	PaymentStatus *PaymentStatus
}

// Apply 应用部分更新并重算总价
func (j *PrintJob) Apply(p Patch) error {
	pages, rate, status := j.Pages, j.Rate, j.PaymentStatus
	if p.Pages != nil {
		pages = *p.Pages
	}
	if p.Rate != nil {
		rate = *p.Rate
	}
	if p.PaymentStatus != nil {
		status = *p.PaymentStatus
	}
	if err := validate(pages, rate, status); err != nil {
		return err
	}

	if p.CustomerName != nil {
		j.CustomerName = *p.CustomerName
	}
	j.Pages, j.Rate, j.PaymentStatus = pages, rate, status
	j.TotalAmount = total(pages, rate)
	j.UpdatedAt = time.Now()
	return nil
}

func validate(pages int, rate decimal.Decimal, status PaymentStatus) error {
	if pages <= 0 {
		return ErrInvalidPages
	}
	if rate.Sign() <= 0 {
		return ErrInvalidRate
	}
	if status != PaymentUnpaid && status != PaymentPaid {
		return ErrInvalidStatus
	}
	return nil
}

func total(pages int, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(pages)))
}

// Repository 打印任务仓储
type Repository interface {
	Create(ctx context.Context, job *PrintJob) error
	FindByID(ctx context.Context, id uint) (*PrintJob, error)
	Update(ctx context.Context, job *PrintJob) error
	Delete(ctx context.Context, id uint) error
	// List 按创建时间倒序，From/To为空表示不限
	List(ctx context.Context, from, to *time.Time) ([]*PrintJob, error)
}
