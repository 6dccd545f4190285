package dto

// CreateEnrollmentRequest is the body of POST /inscripciones
type CreateEnrollmentRequest struct {
	GraduateID int64 `json:"graduado_id" binding:"required,gt=0"`
	WorkshopID int64 `json:"taller_id" binding:"required,gt=0"`
}

// UpdateEnrollmentRequest is the body of PUT /inscripciones/:id
type UpdateEnrollmentRequest struct {
	Status          *string `json:"estado" binding:"omitempty,oneof=inscrito asistio aprobado reprobado certificado retirado"`
	CertificatePath *string `json:"certificado_path"`
}

// UpsertAttendanceRequest is the body of POST /asistencias
type UpsertAttendanceRequest struct {
	EnrollmentID int64  `json:"inscripcion_id" binding:"required,gt=0"`
	ClassDate    string `json:"fecha_clase" binding:"required,datetime=2006-01-02"`
	Status       string `json:"estado" binding:"required,oneof=asistio ausente no_dictada"`
}

// BatchAttendanceRequest is the body of POST /asistencias/lote
type BatchAttendanceRequest struct {
	Entries []UpsertAttendanceRequest `json:"asistencias" binding:"required,min=1,dive"`
}
