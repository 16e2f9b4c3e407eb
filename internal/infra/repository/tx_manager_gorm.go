package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

// tx付き*gorm.DBから都度作るので、Redisキャッシュは通らない
type txReposGorm struct {
	tx *gorm.DB
}

func (r txReposGorm) Customers() repo.CustomerRepository     { return NewCustomerGormRepository(r.tx) }
func (r txReposGorm) Products() repo.ProductRepository       { return NewProductGormRepository(r.tx) }
func (r txReposGorm) Comments() repo.CommentRepository       { return NewCommentGormRepository(r.tx) }
func (r txReposGorm) ResetTokens() repo.ResetTokenRepository { return NewResetTokenRepository(r.tx) }
func (r txReposGorm) AuditLogs() repo.AuditLogRepository     { return NewAuditLogGormRepository(r.tx) }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txReposGorm{tx: tx})
	})
}
