package repository

import "context"

// 1トランザクション内で使うrepository一式
type TxRepos interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Comments() CommentRepository
	ResetTokens() ResetTokenRepository
	AuditLogs() AuditLogRepository
}

// fnがerrorを返したらrollback、nilならcommit
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
