package dto

// CreateDocumentRequest registers a file already uploaded to the object store
type CreateDocumentRequest struct {
	GraduateID  int64   `json:"graduado_id" binding:"required,gt=0"`
	Name        string  `json:"nombre" binding:"required,max=255"`
	Type        *string `json:"tipo" binding:"omitempty,max=60"`
	StoragePath string  `json:"storage_path" binding:"required,max=512"`
	Size        *int64  `json:"tamano" binding:"omitempty,gte=0"`
	MimeType    *string `json:"mime_type" binding:"omitempty,max=120"`
}
