package model

import "time"

// カートの明細。1顧客×1商品につき1行だけ（複合ユニーク）。
type CartLine struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;uniqueIndex:idx_cart_lines_customer_product;index" json:"customerId"`
	ProductID  int64     `gorm:"not null;uniqueIndex:idx_cart_lines_customer_product;index" json:"productId"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	AddedAt    time.Time `gorm:"not null" json:"addedAt"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	Product  Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
}
