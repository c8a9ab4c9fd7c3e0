package printjob

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/printjob"
)

// PrintJobUseCase 打印任务的增删改查
type PrintJobUseCase struct {
	repo printjob.Repository
}

func NewPrintJobUseCase(repo printjob.Repository) *PrintJobUseCase {
	return &PrintJobUseCase{repo: repo}
}

// CreateRequest 创建打印任务
type CreateRequest struct {
	CustomerName  string
	Pages         int
	Rate          decimal.Decimal
	PaymentStatus printjob.PaymentStatus
}

func (uc *PrintJobUseCase) Create(ctx context.Context, req CreateRequest) (*printjob.PrintJob, error) {
	j, err := printjob.New(req.CustomerName, req.Pages, req.Rate, req.PaymentStatus)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, j); err != nil {
		return nil, err
	}

	zctx.From(ctx).Info("Print job created",
		zap.Uint("print_job_id", j.ID),
		zap.String("total", j.TotalAmount.StringFixed(2)),
	)
	return j, nil
}

func (uc *PrintJobUseCase) Get(ctx context.Context, id uint) (*printjob.PrintJob, error) {
	return uc.repo.FindByID(ctx, id)
}

// List 按创建时间倒序
func (uc *PrintJobUseCase) List(ctx context.Context, from, to *time.Time) ([]*printjob.PrintJob, error) {
	return uc.repo.List(ctx, from, to)
}

// Update 部分更新,页数或单价变化时重算总价
func (uc *PrintJobUseCase) Update(ctx context.Context, id uint, p printjob.Patch) (*printjob.PrintJob, error) {
	j, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := j.Apply(p); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (uc *PrintJobUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	zctx.From(ctx).Info("Print job deleted", zap.Uint("print_job_id", id))
	return nil
}
