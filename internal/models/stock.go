package models

type Stock struct {
	Base
	Name          string  `gorm:"index" json:"name"`
	Quantity      float64 `gorm:"index" json:"quantity"`
	UnitOfMeasure string  `gorm:"index" json:"unit_of_measure"`
	CostPerUnit   float64 `gorm:"index" json:"cost_per_unit"`
}
