package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// UserController handles profiles and admin account management
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetMe returns the caller's profile and linked graduate record
// @Summary Current profile
// @Tags perfiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /perfiles/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenNotFound)
		return
	}

	me, err := c.userService.Me(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, me)
}

// GetProfile retrieves a profile by its account id
// @Summary Get profile
// @Tags perfiles
// @Produce json
// @Param id path string true "Profile ID (UUID)"
// @Success 200 {object} dto.APIResponse{data=models.Profile}
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /perfiles/{id} [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	profile, err := c.userService.GetProfile(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// UpdateProfile changes the name or role of a profile
// @Summary Update profile
// @Tags perfiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID (UUID)"
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Profile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /perfiles/{id} [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	profile, err := c.userService.UpdateProfile(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// GetAllUsers lists account profiles, optionally by role
// @Summary List users
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param rol query string false "Role"
// @Success 200 {object} dto.APIResponse{data=[]models.Profile}
// @Router /usuarios [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	var filter models.ProfileFilter
	if role := helpers.OptionalStringQuery(ctx, "rol"); role != nil {
		r := models.RoleType(*role)
		filter.Role = &r
	}

	profiles, err := c.userService.ListUsers(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profiles)
}

// CreateUser creates an account in the auth provider and its profile
// @Summary Create user
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Account data"
// @Success 201 {object} dto.APIResponse{data=models.Profile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /usuarios [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	profile, err := c.userService.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, profile)
}
