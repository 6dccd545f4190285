package dto

import "github.com/egresados/seguimiento-api/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecoveryRequest is the body of POST /login/recuperar
type RecoveryRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AccountInfo is the auth provider's view of the caller
type AccountInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResponse carries the provider session plus the caller's profile
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	User         AccountInfo     `json:"user"`
	Profile      *models.Profile `json:"perfil,omitempty"`
}

// MeResponse is returned by GET /perfiles/me
type MeResponse struct {
	Profile  *models.Profile  `json:"perfil"`
	Graduate *models.Graduate `json:"graduado,omitempty"`
}

// UpdateProfileRequest is the body of PUT /perfiles/:id
type UpdateProfileRequest struct {
	Name *string `json:"nombre" binding:"omitempty,min=1,max=160"`
	Role *string `json:"rol" binding:"omitempty,oneof=graduado facilitador administrador"`
}

// CreateUserRequest is the body of POST /usuarios
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"nombre" binding:"required,max=160"`
	Role     string `json:"rol" binding:"required,oneof=graduado facilitador administrador"`
}
