package models

import "time"

// Graduate is a person tracked by the platform after completing a program
type Graduate struct {
	ID             int64     `json:"id" db:"id"`
	ProfileID      *string   `json:"perfil_id,omitempty" db:"perfil_id"`
	FirstName      string    `json:"nombre" db:"nombre"`
	LastName       string    `json:"apellido" db:"apellido"`
	NationalID     string    `json:"cedula" db:"cedula"`
	Email          string    `json:"email" db:"email"`
	Phone          *string   `json:"telefono,omitempty" db:"telefono"`
	Address        *string   `json:"direccion,omitempty" db:"direccion"`
	Zone           *string   `json:"zona,omitempty" db:"zona"`
	Program        *string   `json:"carrera,omitempty" db:"carrera"`
	GraduationYear *int      `json:"anio_egreso,omitempty" db:"anio_egreso"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// GraduateFilter holds the equality filters accepted by graduate listings
type GraduateFilter struct {
	Zone    *string
	Program *string
}

// Recipient is the minimal contact data used for notifications
type Recipient struct {
	GraduateID int64  `json:"graduado_id"`
	Name       string `json:"nombre"`
	Email      string `json:"email"`
}
