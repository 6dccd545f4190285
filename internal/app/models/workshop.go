package models

import "time"

// Modality is how a workshop is delivered
type Modality string

const (
	ModalityOnSite Modality = "presencial"
	ModalityOnline Modality = "virtual"
	ModalityHybrid Modality = "hibrida"
)

// Valid reports whether m is a known modality
func (m Modality) Valid() bool {
	switch m {
	case ModalityOnSite, ModalityOnline, ModalityHybrid:
		return true
	}
	return false
}

// Workshop is a scheduled training offering
type Workshop struct {
	ID            int64      `json:"id" db:"id"`
	Title         string     `json:"titulo" db:"titulo"`
	Description   *string    `json:"descripcion,omitempty" db:"descripcion"`
	Objectives    *string    `json:"objetivos,omitempty" db:"objetivos"`
	StartsAt      *time.Time `json:"fecha_inicio,omitempty" db:"fecha_inicio"`
	EndsAt        *time.Time `json:"fecha_fin,omitempty" db:"fecha_fin"`
	Capacity      int        `json:"cupo" db:"cupo"`
	Modality      Modality   `json:"modalidad" db:"modalidad"`
	Published     bool       `json:"publicado" db:"publicado"`
	Cancelled     bool       `json:"cancelado" db:"cancelado"`
	FacilitatorID *string    `json:"facilitador_id,omitempty" db:"facilitador_id"`
	AreaIDs       []int64    `json:"areas_ids" db:"-"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// WorkshopFilter holds the equality filters accepted by workshop listings
type WorkshopFilter struct {
	FacilitatorID *string
	Published     *bool
	Cancelled     *bool
}
