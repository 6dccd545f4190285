package models

// Area is an interest area used to match graduates with workshops
type Area struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"nombre_area" db:"nombre_area"`
	Description *string `json:"descripcion,omitempty" db:"descripcion"`
}
