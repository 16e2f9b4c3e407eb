package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	AuditActionCreateProduct  AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct  AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct  AuditAction = "DELETE_PRODUCT"
	AuditActionDeleteCustomer AuditAction = "DELETE_CUSTOMER"
	AuditActionDeleteComment  AuditAction = "DELETE_COMMENT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceCustomer AuditResourceType = "customer"
	AuditResourceComment  AuditResourceType = "comment"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者の顧客ID
	ActorCustomerID int64 `gorm:"not null;index" json:"actorCustomerId"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`

	ResourceID int64 `gorm:"not null;index" json:"resourceId"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"beforeJson"`
	AfterJSON  string `gorm:"type:text" json:"afterJson"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
