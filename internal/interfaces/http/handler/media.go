package handler

import (
	"strconv"

	mediaapp "github.com/brandcert/backend/internal/application/media"
	"github.com/brandcert/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MediaHandler handles presigned upload/download flows for brand assets
type MediaHandler struct {
	BaseHandler
	mediaService *mediaapp.Service
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService *mediaapp.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// CreateUploadRequest represents a new upload registration
// @Description Request body for registering an upload; the response carries a presigned PUT URL
type CreateUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255" example:"product-shot.png"`
	ContentType string `json:"content_type" binding:"required,max=100" example:"image/png"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1" example:"482133"`
	Kind        string `json:"kind" binding:"required,oneof=image document qr_code certificate_pdf" example:"image"`
	Checksum    string `json:"checksum" binding:"omitempty,max=128" example:"sha256:7f83b1657ff1fc..."`
}

// CreateUpload godoc
// @ID           createUpload
// @Summary      Register an upload
// @Description  Validates the file against the brand's storage quota and returns a presigned PUT URL
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request body CreateUploadRequest true "Upload metadata"
// @Success      201 {object} APIResponse[mediaapp.UploadResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media/uploads [post]
func (h *MediaHandler) CreateUpload(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req CreateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.mediaService.CreateUpload(c.Request.Context(), brandID, mediaapp.CreateUploadInput{
		OwnerUserID: userID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Kind:        req.Kind,
		Checksum:    req.Checksum,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ConfirmUpload godoc
// @ID           confirmUpload
// @Summary      Confirm an upload
// @Description  Marks the media record as available after the client finishes the presigned PUT
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID"
// @Success      200 {object} APIResponse[mediaapp.MediaDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media/{id}/confirm [post]
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	brandID, mediaID, ok := h.brandAndMediaParam(c)
	if !ok {
		return
	}

	result, err := h.mediaService.ConfirmUpload(c.Request.Context(), brandID, mediaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID godoc
// @ID           getMedia
// @Summary      Get a media record by ID
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID"
// @Success      200 {object} APIResponse[mediaapp.MediaDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media/{id} [get]
func (h *MediaHandler) GetByID(c *gin.Context) {
	brandID, mediaID, ok := h.brandAndMediaParam(c)
	if !ok {
		return
	}

	result, err := h.mediaService.Get(c.Request.Context(), brandID, mediaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Download godoc
// @ID           downloadMedia
// @Summary      Get a presigned download URL
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID"
// @Success      200 {object} APIResponse[mediaapp.DownloadResult]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media/{id}/download [get]
func (h *MediaHandler) Download(c *gin.Context) {
	brandID, mediaID, ok := h.brandAndMediaParam(c)
	if !ok {
		return
	}

	result, err := h.mediaService.GetDownloadURL(c.Request.Context(), brandID, mediaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @ID           listMedia
// @Summary      List the brand's media
// @Tags         media
// @Produce      json
// @Param        kind query string false "Filter by kind"
// @Param        status query string false "Filter by status"
// @Param        keyword query string false "Search keyword (file name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[mediaapp.MediaListResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	input := mediaapp.ListMediaInput{
		Kind:     c.Query("kind"),
		Status:   c.Query("status"),
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
	}
	if raw := c.Query("owner_user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid owner_user_id filter")
			return
		}
		input.OwnerUserID = &id
	}

	result, err := h.mediaService.List(c.Request.Context(), brandID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Media, result.Total, result.Page, result.PageSize)
}

// Delete godoc
// @ID           deleteMedia
// @Summary      Delete a media record and its stored object
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	brandID, mediaID, ok := h.brandAndMediaParam(c)
	if !ok {
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), brandID, mediaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// brandAndMediaParam resolves the brand from the JWT and the media record
// from the path, writing the error response on failure
func (h *MediaHandler) brandAndMediaParam(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return uuid.Nil, uuid.Nil, false
	}

	mediaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid media ID")
		return uuid.Nil, uuid.Nil, false
	}

	return brandID, mediaID, true
}
