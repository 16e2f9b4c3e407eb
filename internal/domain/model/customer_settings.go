package model

import "time"

// 通知・公開範囲の設定。顧客ごとに1行。
type CustomerSettings struct {
	CustomerID         int64     `gorm:"primaryKey;autoIncrement:false" json:"customerId"`
	EmailNotifications bool      `gorm:"not null" json:"emailNotifications"`
	SMSNotifications   bool      `gorm:"column:sms_notifications;not null" json:"smsNotifications"`
	PushNotifications  bool      `gorm:"not null" json:"pushNotifications"`
	ProfileVisible     bool      `gorm:"not null" json:"profileVisible"`
	ShareOrderHistory  bool      `gorm:"not null" json:"shareOrderHistory"`
	ShareReviews       bool      `gorm:"not null" json:"shareReviews"`
	CreatedAt          time.Time `gorm:"not null" json:"createdAt"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// 初回アクセス時に作る既定値
func DefaultCustomerSettings(customerID int64, now time.Time) CustomerSettings {
	return CustomerSettings{
		CustomerID:         customerID,
		EmailNotifications: true,
		SMSNotifications:   false,
		PushNotifications:  true,
		ProfileVisible:     true,
		ShareOrderHistory:  false,
		ShareReviews:       true,
		CreatedAt:          now,
	}
}
