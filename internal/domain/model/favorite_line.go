package model

import "time"

// お気に入り。カートと違って数量を持たない集合。
type FavoriteLine struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;uniqueIndex:idx_favorite_lines_customer_product;index" json:"customerId"`
	ProductID  int64     `gorm:"not null;uniqueIndex:idx_favorite_lines_customer_product;index" json:"productId"`
	AddedAt    time.Time `gorm:"not null" json:"addedAt"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	Product  Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
}
