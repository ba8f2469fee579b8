package models

import "gorm.io/datatypes"

type Category struct {
	Base
	CategoryName string `gorm:"index" json:"category_name"`
}

type Menu struct {
	Base
	ItemList     datatypes.JSON `json:"item_list"`
	Price        int            `gorm:"index" json:"price"`
	Quantity     string         `json:"quantity"`
	CategoryName datatypes.JSON `json:"category_name"`
}
