package model

import "time"

type Product struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         int64     `gorm:"not null" json:"price"`
	Stock         int64     `gorm:"not null;default:0" json:"stock"`
	CategoryID    int64     `gorm:"not null;default:0;index" json:"categoryId"`
	SubcategoryID int64     `gorm:"not null;default:0" json:"subcategoryId"`
	ImageURL      string    `gorm:"type:varchar(500);not null;default:''" json:"imageUrl"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
