package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// nilの条件は絞り込まない
type AuditLogFilter struct {
	ActorCustomerID *int64
	Action          *model.AuditAction
	ResourceType    *model.AuditResourceType
	ResourceID      *int64
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	Limit           int
	Offset          int
}

// 管理者操作の記録
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
	// Limit/Offsetを無視した件数
	Count(ctx context.Context, filter AuditLogFilter) (int64, error)
}
