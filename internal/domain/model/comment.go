package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// 商品レビュー（評価1〜5＋本文）。
type Comment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ProductID  int64     `gorm:"not null;index"`
	CustomerID int64     `gorm:"not null;index"`
	Rating     int       `gorm:"not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null;index"`

	Product  *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}
