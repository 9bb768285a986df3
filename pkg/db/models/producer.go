package models

// Producer grows products of one or more categories.
type Producer struct {
	Base
	Name         string            `json:"name" gorm:"column:name;not null;uniqueIndex"`
	Presentation string            `json:"presentation" gorm:"column:presentation"`
	Street       string            `json:"street" gorm:"column:street"`
	Verified     bool              `json:"verified" gorm:"column:verified;not null;default:false"`
	CityID       uint              `json:"cityId" gorm:"column:city_id;not null;index"`
	City         *City             `json:"city,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Categories   []ProductCategory `json:"categories,omitempty" gorm:"many2many:producer_categories;joinForeignKey:ProducerID;joinReferences:ProductCategoryID"`
}

func (Producer) TableName() string { return "producers" }
