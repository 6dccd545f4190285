// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/egresados/seguimiento-api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses a positive integer path parameter, answering 400 when invalid
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, ok := helpers.ParseIDParam(ctx, name)
	if !ok {
		middleware.BadRequest(ctx, name+" must be a positive integer")
	}
	return id, ok
}

// queryInt64 parses an optional integer query parameter, answering 400 when malformed
func queryInt64(ctx *gin.Context, name string) (*int64, bool) {
	v, ok := helpers.OptionalInt64Query(ctx, name)
	if !ok {
		middleware.BadRequest(ctx, name+" must be an integer")
	}
	return v, ok
}

// queryBool parses an optional boolean query parameter, answering 400 when malformed
func queryBool(ctx *gin.Context, name string) (*bool, bool) {
	v, ok := helpers.OptionalBoolQuery(ctx, name)
	if !ok {
		middleware.BadRequest(ctx, name+" must be true or false")
	}
	return v, ok
}

// queryUUID reads an optional UUID query parameter, answering 400 when malformed
func queryUUID(ctx *gin.Context, name string) (*string, bool) {
	v := helpers.OptionalStringQuery(ctx, name)
	if v == nil {
		return nil, true
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		middleware.BadRequest(ctx, name+" must be a valid UUID")
		return nil, false
	}
	s := id.String()
	return &s, true
}

// bindJSON binds the request body, answering 400 with field details on failure
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		middleware.BindingError(ctx, err)
		return false
	}
	return true
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.NewSuccessResponse(data))
}

func respondDeleted(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: message}))
}
