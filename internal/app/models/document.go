package models

import "time"

// Document is a reference to a graduate's file held in the object store
type Document struct {
	ID          int64     `json:"id" db:"id"`
	GraduateID  int64     `json:"graduado_id" db:"graduado_id"`
	Name        string    `json:"nombre" db:"nombre"`
	Type        *string   `json:"tipo,omitempty" db:"tipo"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	Size        *int64    `json:"tamano,omitempty" db:"tamano"`
	MimeType    *string   `json:"mime_type,omitempty" db:"mime_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
