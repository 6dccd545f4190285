package models

// ProgramCount is one row of the graduates-by-program report
type ProgramCount struct {
	Program string `json:"carrera"`
	Count   int64  `json:"cantidad"`
}

// ZoneCount is one row of the graduates-by-zone report
type ZoneCount struct {
	Zone  string `json:"zona"`
	Count int64  `json:"cantidad"`
}

// WorkshopEnrollmentStats counts enrollments per workshop
type WorkshopEnrollmentStats struct {
	WorkshopID int64  `json:"taller_id"`
	Title      string `json:"titulo"`
	Enrolled   int64  `json:"inscritos"`
	Certified  int64  `json:"certificados"`
}

// WorkshopAttendanceStats counts attendance rows per workshop and status
type WorkshopAttendanceStats struct {
	WorkshopID int64  `json:"taller_id"`
	Title      string `json:"titulo"`
	Present    int64  `json:"asistio"`
	Absent     int64  `json:"ausente"`
	NotHeld    int64  `json:"no_dictada"`
}
