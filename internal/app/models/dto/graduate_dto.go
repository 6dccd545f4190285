package dto

// CreateGraduateRequest is the body of POST /graduados
type CreateGraduateRequest struct {
	ProfileID      *string `json:"perfil_id" binding:"omitempty,uuid"`
	FirstName      string  `json:"nombre" binding:"required,max=120"`
	LastName       string  `json:"apellido" binding:"required,max=120"`
	NationalID     string  `json:"cedula" binding:"required,cedula"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          *string `json:"telefono" binding:"omitempty,telefono"`
	Address        *string `json:"direccion"`
	Zone           *string `json:"zona" binding:"omitempty,max=120"`
	Program        *string `json:"carrera" binding:"omitempty,max=160"`
	GraduationYear *int    `json:"anio_egreso" binding:"omitempty,gte=1950,lte=2100"`
}

// UpdateGraduateRequest is the body of PUT /graduados/:id. Absent fields keep
// their stored value.
type UpdateGraduateRequest struct {
	ProfileID      *string `json:"perfil_id" binding:"omitempty,uuid"`
	FirstName      *string `json:"nombre" binding:"omitempty,min=1,max=120"`
	LastName       *string `json:"apellido" binding:"omitempty,min=1,max=120"`
	NationalID     *string `json:"cedula" binding:"omitempty,cedula"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"telefono" binding:"omitempty,telefono"`
	Address        *string `json:"direccion"`
	Zone           *string `json:"zona" binding:"omitempty,max=120"`
	Program        *string `json:"carrera" binding:"omitempty,max=160"`
	GraduationYear *int    `json:"anio_egreso" binding:"omitempty,gte=1950,lte=2100"`
}
