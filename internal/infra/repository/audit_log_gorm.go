package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs := []model.AuditLog{}
	err := r.db.WithContext(ctx).
		Scopes(auditConditions(filter), auditPage(filter)).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return []model.AuditLog{}, err
	}
	return logs, nil
}

func (r *auditLogGormRepository) Count(ctx context.Context, filter repo.AuditLogFilter) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.AuditLog{}).
		Scopes(auditConditions(filter)).
		Count(&n).Error
	return n, err
}

// List・Countで共通のWHERE
func auditConditions(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.ActorCustomerID != nil {
			q = q.Where("actor_customer_id = ?", *f.ActorCustomerID)
		}
		if f.Action != nil {
			q = q.Where("action = ?", string(*f.Action))
		}
		if f.ResourceType != nil {
			q = q.Where("resource_type = ?", string(*f.ResourceType))
		}
		if f.ResourceID != nil {
			q = q.Where("resource_id = ?", *f.ResourceID)
		}
		if f.CreatedFrom != nil {
			q = q.Where("created_at >= ?", *f.CreatedFrom)
		}
		if f.CreatedTo != nil {
			q = q.Where("created_at <= ?", *f.CreatedTo)
		}
		return q
	}
}

func auditPage(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	limit, offset := clampAuditPage(f.Limit, f.Offset)
	return func(q *gorm.DB) *gorm.DB {
		return q.Limit(limit).Offset(offset)
	}
}

func clampAuditPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
