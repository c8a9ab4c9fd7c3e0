package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/shopdesk/internal/domain/printjob"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

type printJobRepository struct {
	db *gorm.DB
}

// NewPrintJobRepository 创建打印任务仓储
func NewPrintJobRepository(db *gorm.DB) printjob.Repository {
	return &printJobRepository{db: db}
}

func (r *printJobRepository) Create(ctx context.Context, j *printjob.PrintJob) error {
	model := &PrintJobModel{
		CustomerName:  j.CustomerName,
		Pages:         j.Pages,
		Rate:          j.Rate,
		TotalAmount:   j.TotalAmount,
		PaymentStatus: string(j.PaymentStatus),
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "create print job failed")
	}
	j.ID = model.ID
	j.CreatedAt = model.CreatedAt
	j.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *printJobRepository) FindByID(ctx context.Context, id uint) (*printjob.PrintJob, error) {
	var model PrintJobModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, printjob.ErrPrintJobNotFound
		}
		return nil, apperrors.Wrap(err, "query print job failed")
	}
	return toPrintJobEntity(&model), nil
}

func (r *printJobRepository) Update(ctx context.Context, j *printjob.PrintJob) error {
	now := time.Now().UTC()
	result := getDB(ctx, r.db).Model(&PrintJobModel{}).
		Where("id = ?", j.ID).
		Updates(map[string]interface{}{
			"customer_name":  j.CustomerName,
			"pages":          j.Pages,
			"rate":           j.Rate,
			"total_amount":   j.TotalAmount,
			"payment_status": string(j.PaymentStatus),
			"updated_at":     now,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "update print job failed")
	}
	if result.RowsAffected == 0 {
		return printjob.ErrPrintJobNotFound
	}
	j.UpdatedAt = now
	return nil
}

func (r *printJobRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&PrintJobModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "delete print job failed")
	}
	if result.RowsAffected == 0 {
		return printjob.ErrPrintJobNotFound
	}
	return nil
}

func (r *printJobRepository) List(ctx context.Context, from, to *time.Time) ([]*printjob.PrintJob, error) {
	query := getDB(ctx, r.db).Model(&PrintJobModel{})
	if from != nil {
		query = query.Where("created_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("created_at < ?", to.UTC())
	}

	var models []PrintJobModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "list print jobs failed")
	}

	jobs := make([]*printjob.PrintJob, 0, len(models))
	for i := range models {
		jobs = append(jobs, toPrintJobEntity(&models[i]))
	}
	return jobs, nil
}

func toPrintJobEntity(m *PrintJobModel) *printjob.PrintJob {
	return &printjob.PrintJob{
		ID:            m.ID,
		CustomerName:  m.CustomerName,
		Pages:         m.Pages,
		Rate:          m.Rate,
		TotalAmount:   m.TotalAmount,
		PaymentStatus: printjob.PaymentStatus(m.PaymentStatus),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
