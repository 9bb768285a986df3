package models

// User is an account that places orders. PasswordHash never leaves the server.
type User struct {
	Base
	Email        string `json:"email" gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Username     string `json:"username" gorm:"column:username"`
	Firstname    string `json:"firstname" gorm:"column:firstname"`
	Lastname     string `json:"lastname" gorm:"column:lastname"`
	Address      string `json:"address" gorm:"column:address"`
	Verified     bool   `json:"verified" gorm:"column:verified;not null;default:false"`
}

func (User) TableName() string { return "users" }
