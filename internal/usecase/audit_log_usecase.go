package usecase

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 管理画面の監査ログ一覧
type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

type AuditLogQuery struct {
	ActorCustomerID *int64
	Action          string
	ResourceType    string
	ResourceID      *int64
	From            string // RFC3339
	To              string // RFC3339
	Limit           int
	Offset          int
}

type AuditLogPage struct {
	Items  []model.AuditLog `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func (u *AuditLogUsecase) List(ctx context.Context, q AuditLogQuery) (AuditLogPage, error) {
	f := repo.AuditLogFilter{
		ActorCustomerID: q.ActorCustomerID,
		ResourceID:      q.ResourceID,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}
	if q.Action != "" {
		a := model.AuditAction(q.Action)
		f.Action = &a
	}
	if q.ResourceType != "" {
		rt := model.AuditResourceType(q.ResourceType)
		f.ResourceType = &rt
	}
	if q.From != "" {
		t, err := time.Parse(time.RFC3339, q.From)
		if err != nil {
			return AuditLogPage{}, NewHTTPError(http.StatusBadRequest, "invalid from")
		}
		f.CreatedFrom = &t
	}
	if q.To != "" {
		t, err := time.Parse(time.RFC3339, q.To)
		if err != nil {
			return AuditLogPage{}, NewHTTPError(http.StatusBadRequest, "invalid to")
		}
		f.CreatedTo = &t
	}

	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedTo.Before(*f.CreatedFrom) {
		return AuditLogPage{}, NewHTTPError(http.StatusBadRequest, "to must be after from")
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return AuditLogPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	total, err := u.auditRepo.Count(ctx, f)
	if err != nil {
		return AuditLogPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return AuditLogPage{Items: logs, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}
