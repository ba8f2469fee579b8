package models

type Restaurant struct {
	Base
	UPIMerchantName   string `gorm:"column:upi_merchant_name;uniqueIndex" json:"upi_merchant_name"`
	UPIID             string `gorm:"column:upi_id;uniqueIndex" json:"upi_id"`
	RestaurantAddress string `gorm:"index" json:"restaurant_address,omitempty"`
	RestaurantPhone   string `gorm:"index" json:"restaurant_phone,omitempty"`
	RestaurantEmail   string `gorm:"index" json:"restaurant_email,omitempty"`
	LogoURL           string `json:"logo_url,omitempty"`
}
