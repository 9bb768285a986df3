package users

// CreateInput registers an account. The password is hashed before storage.
type CreateInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Username  string `json:"username" validate:"omitempty,max=64"`
	Firstname string `json:"firstname" validate:"omitempty,max=128"`
	Lastname  string `json:"lastname" validate:"omitempty,max=128"`
	Address   string `json:"address" validate:"omitempty,max=255"`
	Verified  bool   `json:"verified"`
}

type UpdateInput struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=128"`
	Username  *string `json:"username" validate:"omitempty,max=64"`
	Firstname *string `json:"firstname" validate:"omitempty,max=128"`
	Lastname  *string `json:"lastname" validate:"omitempty,max=128"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	Verified  *bool   `json:"verified"`
}
