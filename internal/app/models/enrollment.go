package models

import "time"

// EnrollmentStatus tracks a graduate's progress in a workshop
type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "inscrito"
	EnrollmentAttended  EnrollmentStatus = "asistio"
	EnrollmentApproved  EnrollmentStatus = "aprobado"
	EnrollmentFailed    EnrollmentStatus = "reprobado"
	EnrollmentCertified EnrollmentStatus = "certificado"
	EnrollmentWithdrawn EnrollmentStatus = "retirado"
)

// Valid reports whether s is a known enrollment status
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentEnrolled, EnrollmentAttended, EnrollmentApproved,
		EnrollmentFailed, EnrollmentCertified, EnrollmentWithdrawn:
		return true
	}
	return false
}

// Enrollment links a graduate to a workshop
type Enrollment struct {
	ID              int64            `json:"id" db:"id"`
	GraduateID      int64            `json:"graduado_id" db:"graduado_id"`
	WorkshopID      int64            `json:"taller_id" db:"taller_id"`
	Status          EnrollmentStatus `json:"estado" db:"estado"`
	CertificatePath *string          `json:"certificado_path,omitempty" db:"certificado_path"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// EnrollmentFilter holds the equality filters accepted by enrollment listings
type EnrollmentFilter struct {
	GraduateID *int64
	WorkshopID *int64
	Status     *EnrollmentStatus
}
