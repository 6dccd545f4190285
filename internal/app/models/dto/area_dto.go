package dto

// CreateAreaRequest is the body of POST /areas
type CreateAreaRequest struct {
	Name        string  `json:"nombre_area" binding:"required,max=120"`
	Description *string `json:"descripcion"`
}

// UpdateAreaRequest is the body of PUT /areas/:id
type UpdateAreaRequest struct {
	Name        *string `json:"nombre_area" binding:"omitempty,min=1,max=120"`
	Description *string `json:"descripcion"`
}

// ReplacePreferencesRequest is the body of POST /preferencias. An empty
// preferenceIds list clears every preference of the graduate.
type ReplacePreferencesRequest struct {
	GraduateID    int64   `json:"graduado_id" binding:"required,gt=0"`
	PreferenceIDs []int64 `json:"preferenceIds" binding:"required,dive,gt=0"`
}

// PreferencesResponse echoes the stored preference set
type PreferencesResponse struct {
	GraduateID    int64   `json:"graduado_id"`
	PreferenceIDs []int64 `json:"preferenceIds"`
}
