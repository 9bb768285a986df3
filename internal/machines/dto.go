package machines

type CreateInput struct {
	CityID          uint     `json:"cityId" validate:"required"`
	Ref             string   `json:"ref" validate:"omitempty,max=64"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,longitude"`
	Street          string   `json:"street" validate:"omitempty,max=255"`
	MaxLineCapacity int      `json:"maxLineCapacity" validate:"omitempty,min=1,max=702"`
	MaxRowCapacity  int      `json:"maxRowCapacity" validate:"omitempty,min=1,max=999"`
}

// UpdateInput has no uuid field; the public identity never changes.
type UpdateInput struct {
	CityID          *uint    `json:"cityId" validate:"omitempty,min=1"`
	Ref             *string  `json:"ref" validate:"omitempty,max=64"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,longitude"`
	Street          *string  `json:"street" validate:"omitempty,max=255"`
	MaxLineCapacity *int     `json:"maxLineCapacity" validate:"omitempty,min=1,max=702"`
	MaxRowCapacity  *int     `json:"maxRowCapacity" validate:"omitempty,min=1,max=999"`
}
