package dto

import "time"

// CreateWorkshopRequest is the body of POST /talleres
type CreateWorkshopRequest struct {
	Title         string     `json:"titulo" binding:"required,max=200"`
	Description   *string    `json:"descripcion"`
	Objectives    *string    `json:"objetivos"`
	StartsAt      *time.Time `json:"fecha_inicio"`
	EndsAt        *time.Time `json:"fecha_fin"`
	Capacity      *int       `json:"cupo" binding:"omitempty,gte=0"`
	Modality      *string    `json:"modalidad" binding:"omitempty,oneof=presencial virtual hibrida"`
	Published     *bool      `json:"publicado"`
	FacilitatorID *string    `json:"facilitador_id" binding:"omitempty,uuid"`
	AreaIDs       []int64    `json:"areas_ids" binding:"omitempty,dive,gt=0"`
}

// UpdateWorkshopRequest is the body of PUT /talleres/:id.
// AreaIDs distinguishes absent (nil, associations untouched) from an explicit
// empty list (all associations removed).
type UpdateWorkshopRequest struct {
	Title         *string    `json:"titulo" binding:"omitempty,min=1,max=200"`
	Description   *string    `json:"descripcion"`
	Objectives    *string    `json:"objetivos"`
	StartsAt      *time.Time `json:"fecha_inicio"`
	EndsAt        *time.Time `json:"fecha_fin"`
	Capacity      *int       `json:"cupo" binding:"omitempty,gte=0"`
	Modality      *string    `json:"modalidad" binding:"omitempty,oneof=presencial virtual hibrida"`
	Published     *bool      `json:"publicado"`
	Cancelled     *bool      `json:"cancelado"`
	FacilitatorID *string    `json:"facilitador_id" binding:"omitempty,uuid"`
	AreaIDs       *[]int64   `json:"areas_ids" binding:"omitempty,dive,gt=0"`
}

// NotifyResponse reports how many graduates were queued for a workshop announcement
type NotifyResponse struct {
	WorkshopID int64 `json:"taller_id"`
	Recipients int   `json:"destinatarios"`
}
