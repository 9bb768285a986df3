package models

// City is reference data for producers and machines.
type City struct {
	Base
	Name       string `json:"name" gorm:"column:name;not null;uniqueIndex"`
	PostalCode string `json:"postalCode" gorm:"column:postal_code"`
	InseeCode  string `json:"inseeCode" gorm:"column:insee_code"`
}

func (City) TableName() string { return "cities" }
