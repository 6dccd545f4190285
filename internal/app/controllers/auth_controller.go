package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// recoveryMessage is returned whether or not the address has an account
const recoveryMessage = "If the address belongs to an account, a recovery email is on its way"

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login handles user login
// @Summary User login
// @Description Authenticates against the auth provider and returns its session plus the caller's profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	c.logger.Debug().Msg("Login endpoint called")

	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.BindingError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// RequestPasswordReset emails a recovery link
// @Summary Request password reset
// @Description Always answers 200 so that callers cannot tell which addresses have accounts
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RecoveryRequest true "Account email"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Email missing"
// @Router /login/recuperar [post]
func (c *AuthController) RequestPasswordReset(ctx *gin.Context) {
	var req dto.RecoveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindingError(ctx, err)
		return
	}

	if err := c.authService.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: recoveryMessage})
}
