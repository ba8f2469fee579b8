package models

type Table struct {
	Base
	TableNo int `gorm:"index" json:"table_no"`
}
