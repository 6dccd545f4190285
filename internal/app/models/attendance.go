package models

import "time"

// AttendanceStatus is the outcome of one class day for one enrollment
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "asistio"
	AttendanceAbsent  AttendanceStatus = "ausente"
	AttendanceNotHeld AttendanceStatus = "no_dictada"
)

// Valid reports whether s is a known attendance status
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceNotHeld:
		return true
	}
	return false
}

// Attendance is one row per (enrollment, class date).
// ClassDate uses the YYYY-MM-DD wire format.
type Attendance struct {
	ID           int64            `json:"id" db:"id"`
	EnrollmentID int64            `json:"inscripcion_id" db:"inscripcion_id"`
	ClassDate    string           `json:"fecha_clase" db:"fecha_clase"`
	Status       AttendanceStatus `json:"estado" db:"estado"`
	GraduateID   *int64           `json:"graduado_id,omitempty" db:"-"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}
