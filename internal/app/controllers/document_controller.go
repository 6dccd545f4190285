package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/app/services"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MaxUploadSize bounds multipart document uploads
const MaxUploadSize = 20 << 20

// uploadMemory is the part of a multipart form kept in memory before spilling to disk
const uploadMemory = 8 << 20

// DocumentController handles graduate document operations
type DocumentController struct {
	documentService services.DocumentService
	logger          zerolog.Logger
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, logger zerolog.Logger) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		logger:          logger,
	}
}

// GetAllDocuments lists document references, optionally for one graduate
// @Summary List documents
// @Tags documentos
// @Produce json
// @Param graduado_id query int false "Graduate ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Document}
// @Router /documentos [get]
func (c *DocumentController) GetAllDocuments(ctx *gin.Context) {
	graduateID, ok := queryInt64(ctx, "graduado_id")
	if !ok {
		return
	}

	documents, err := c.documentService.List(ctx.Request.Context(), graduateID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, documents)
}

// CreateDocument registers a file already present in the object store
// @Summary Register a document
// @Tags documentos
// @Accept json
// @Produce json
// @Param request body dto.CreateDocumentRequest true "Document reference"
// @Success 201 {object} dto.APIResponse{data=models.Document}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /documentos [post]
func (c *DocumentController) CreateDocument(ctx *gin.Context) {
	var req dto.CreateDocumentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	document, err := c.documentService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, document)
}

// UploadDocument receives a multipart file and stores it for a graduate
// @Summary Upload a document
// @Tags documentos
// @Accept multipart/form-data
// @Produce json
// @Param graduado_id formData int true "Graduate ID"
// @Param tipo formData string false "Document type"
// @Param archivo formData file true "File"
// @Success 201 {object} dto.APIResponse{data=models.Document}
// @Failure 400 {object} dto.ErrorResponse "Missing file or graduate"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /documentos/archivo [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, MaxUploadSize)
	if err := ctx.Request.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.PayloadTooLarge(ctx, fmt.Sprintf("archivo exceeds %d MB", MaxUploadSize>>20))
			return
		}
		middleware.BadRequest(ctx, "request must be multipart/form-data")
		return
	}

	graduateID, err := strconv.ParseInt(ctx.PostForm("graduado_id"), 10, 64)
	if err != nil || graduateID <= 0 {
		middleware.BadRequest(ctx, "graduado_id must be a positive integer")
		return
	}

	header, err := ctx.FormFile("archivo")
	if err != nil {
		middleware.BadRequest(ctx, "archivo is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		c.logger.Error().Err(err).Str("filename", header.Filename).Msg("Failed to open uploaded file")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	upload := services.UploadedFile{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
	if docType := strings.TrimSpace(ctx.PostForm("tipo")); docType != "" {
		upload.Type = &docType
	}

	document, err := c.documentService.Upload(ctx.Request.Context(), graduateID, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, document)
}

// GetDocumentURL returns a time-limited download link
// @Summary Signed document URL
// @Tags documentos
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse{data=dto.SignedURLResponse}
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documentos/{id}/url [get]
func (c *DocumentController) GetDocumentURL(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	link, err := c.documentService.SignedURL(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, link)
}

// DeleteDocument removes the reference and then the stored file
// @Summary Delete a document
// @Tags documentos
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documentos/{id} [delete]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.documentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Document deleted successfully")
}
