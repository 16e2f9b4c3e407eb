package model

import "time"

// パスワード再設定トークン。平文はメールでのみ送り、DBにはhashを保存。
type PasswordResetToken struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	CustomerID int64     `gorm:"not null;index"`
	TokenHash  string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	Used       bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// 未使用かつ期限内のときだけ有効
func (t PasswordResetToken) ValidAt(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
