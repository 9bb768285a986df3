package models

import "github.com/angelmondragon/lockerbox-backend/pkg/enums"

// Status is a seeded order status; the name drives order classification.
type Status struct {
	Base
	Name    string `json:"name" gorm:"column:name;not null;uniqueIndex"`
	Message string `json:"message" gorm:"column:message"`
}

func (Status) TableName() string { return "statuses" }

// OrderStatus returns the normalized status name, or "" when unknown.
func (s Status) OrderStatus() enums.OrderStatus {
	parsed, err := enums.ParseOrderStatus(s.Name)
	if err != nil {
		return ""
	}
	return parsed
}
