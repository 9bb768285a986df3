package models

// MatrixElement is a grid cell label such as "a1", stored lowercase.
type MatrixElement struct {
	Base
	Ref string `json:"ref" gorm:"column:ref;not null;uniqueIndex"`
}

func (MatrixElement) TableName() string { return "matrix_elements" }
