package handler

import (
	"fmt"
	"net/http"
	"strconv"

	certapp "github.com/brandcert/backend/internal/application/certificate"
	"github.com/brandcert/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CertificateHandler handles the certificate lifecycle and the public
// verification endpoint
type CertificateHandler struct {
	BaseHandler
	certService *certapp.Service
}

// NewCertificateHandler creates a new CertificateHandler
func NewCertificateHandler(certService *certapp.Service) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

// IssueCertificateRequest represents a certificate issuance
// @Description Request body for issuing a certificate; draft keeps it editable instead of queueing the mint
type IssueCertificateRequest struct {
	ProductName    string         `json:"product_name" binding:"required,min=2,max=200" example:"Aurora Chronograph 42mm"`
	ProductSKU     string         `json:"product_sku" binding:"max=100" example:"AUR-CHR-42-BLK"`
	Description    string         `json:"description" binding:"max=2000"`
	BatchNumber    string         `json:"batch_number" binding:"max=100" example:"B-2026-031"`
	ManufacturerID *string        `json:"manufacturer_id" binding:"omitempty,uuid"`
	MediaID        *string        `json:"media_id" binding:"omitempty,uuid"`
	Metadata       map[string]any `json:"metadata"`
	Draft          bool           `json:"draft" example:"false"`
}

// UpdateCertificateRequest represents edits to a draft certificate
// @Description Request body for updating a draft certificate
type UpdateCertificateRequest struct {
	ProductName    string         `json:"product_name" binding:"required,min=2,max=200"`
	ProductSKU     string         `json:"product_sku" binding:"max=100"`
	Description    string         `json:"description" binding:"max=2000"`
	BatchNumber    string         `json:"batch_number" binding:"max=100"`
	ManufacturerID *string        `json:"manufacturer_id" binding:"omitempty,uuid"`
	MediaID        *string        `json:"media_id" binding:"omitempty,uuid"`
	Metadata       map[string]any `json:"metadata"`
}

// TransferCertificateRequest represents an ownership transfer
// @Description Request body for transferring a minted certificate to a wallet address
type TransferCertificateRequest struct {
	ToAddress string `json:"to_address" binding:"required,min=4,max=128" example:"0x9a1f60bd3e8c44d2a15c6f7d8e9b0a1c2d3e4f50"`
}

// RevokeCertificateRequest represents a revocation
// @Description Request body for revoking a certificate
type RevokeCertificateRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500" example:"Counterfeit batch recall"`
}

// RetryMintRequest represents a mint retry
// @Description Request body for retrying a failed mint; force resets the attempt counter
type RetryMintRequest struct {
	Force bool `json:"force" example:"false"`
}

// Issue godoc
// @ID           issueCertificate
// @Summary      Issue a certificate
// @Description  Creates a certificate, allocates its serial number, and queues the mint unless draft is set
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        request body IssueCertificateRequest true "Certificate details"
// @Success      201 {object} APIResponse[certapp.CertificateDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates [post]
func (h *CertificateHandler) Issue(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	var req IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	manufacturerID, ok := h.optionalUUID(c, req.ManufacturerID, "manufacturer_id")
	if !ok {
		return
	}
	mediaID, ok := h.optionalUUID(c, req.MediaID, "media_id")
	if !ok {
		return
	}

	result, err := h.certService.Issue(c.Request.Context(), brandID, certapp.IssueCertificateInput{
		ProductName:    req.ProductName,
		ProductSKU:     req.ProductSKU,
		Description:    req.Description,
		BatchNumber:    req.BatchNumber,
		ManufacturerID: manufacturerID,
		MediaID:        mediaID,
		Metadata:       req.Metadata,
		Draft:          req.Draft,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @ID           listCertificates
// @Summary      List the brand's certificates
// @Tags         certificates
// @Produce      json
// @Param        keyword query string false "Search keyword (product name, SKU, serial)"
// @Param        status query string false "Filter by status"
// @Param        manufacturer_id query string false "Filter by manufacturer"
// @Param        batch_number query string false "Filter by batch"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[certapp.CertificateListResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	input := certapp.ListCertificatesInput{
		Keyword:     c.Query("keyword"),
		Status:      c.Query("status"),
		BatchNumber: c.Query("batch_number"),
		Page:        page,
		PageSize:    pageSize,
		SortBy:      c.Query("sort_by"),
		SortDir:     c.Query("sort_dir"),
	}
	if raw := c.Query("manufacturer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid manufacturer_id filter")
			return
		}
		input.ManufacturerID = &id
	}

	result, err := h.certService.List(c.Request.Context(), brandID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Certificates, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @ID           getCertificate
// @Summary      Get a certificate by ID
// @Tags         certificates
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Success      200 {object} APIResponse[certapp.CertificateDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id} [get]
func (h *CertificateHandler) GetByID(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	result, err := h.certService.Get(c.Request.Context(), brandID, certID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update godoc
// @ID           updateCertificate
// @Summary      Update a draft certificate
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Param        request body UpdateCertificateRequest true "Field updates"
// @Success      200 {object} APIResponse[certapp.CertificateDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id} [put]
func (h *CertificateHandler) Update(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	var req UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	manufacturerID, ok := h.optionalUUID(c, req.ManufacturerID, "manufacturer_id")
	if !ok {
		return
	}
	mediaID, ok := h.optionalUUID(c, req.MediaID, "media_id")
	if !ok {
		return
	}

	result, err := h.certService.Update(c.Request.Context(), brandID, certID, certapp.UpdateCertificateInput{
		ProductName:    req.ProductName,
		ProductSKU:     req.ProductSKU,
		Description:    req.Description,
		BatchNumber:    req.BatchNumber,
		ManufacturerID: manufacturerID,
		MediaID:        mediaID,
		Metadata:       req.Metadata,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteCertificate
// @Summary      Delete a draft or failed certificate
// @Tags         certificates
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id} [delete]
func (h *CertificateHandler) Delete(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	if err := h.certService.Delete(c.Request.Context(), brandID, certID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Mint godoc
// @ID           mintCertificate
// @Summary      Submit a draft certificate for minting
// @Tags         certificates
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Success      200 {object} APIResponse[certapp.CertificateDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id}/mint [post]
func (h *CertificateHandler) Mint(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	result, err := h.certService.Mint(c.Request.Context(), brandID, certID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RetryMint godoc
// @ID           retryMintCertificate
// @Summary      Retry a failed mint
// @Description  Force resets the attempt counter once the exhaustion limit is reached
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Param        request body RetryMintRequest false "Retry options"
// @Success      200 {object} APIResponse[certapp.CertificateDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id}/retry [post]
func (h *CertificateHandler) RetryMint(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	var req RetryMintRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	result, err := h.certService.RetryMint(c.Request.Context(), brandID, certID, req.Force)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Transfer godoc
// @ID           transferCertificate
// @Summary      Transfer a minted certificate
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Param        request body TransferCertificateRequest true "Destination wallet address"
// @Success      200 {object} APIResponse[certapp.CertificateDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id}/transfer [post]
func (h *CertificateHandler) Transfer(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	var req TransferCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.certService.Transfer(c.Request.Context(), brandID, certID, certapp.TransferInput{
		ToAddress: req.ToAddress,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Revoke godoc
// @ID           revokeCertificate
// @Summary      Revoke a certificate
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Param        request body RevokeCertificateRequest true "Revocation reason"
// @Success      200 {object} APIResponse[certapp.CertificateDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id}/revoke [post]
func (h *CertificateHandler) Revoke(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	var req RevokeCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.certService.Revoke(c.Request.Context(), brandID, certID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Stats godoc
// @ID           certificateStats
// @Summary      Certificate counts by status
// @Tags         certificates
// @Produce      json
// @Success      200 {object} APIResponse[certapp.CertificateStatsDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/stats [get]
func (h *CertificateHandler) Stats(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	result, err := h.certService.Stats(c.Request.Context(), brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// QRCode godoc
// @ID           certificateQRCode
// @Summary      Get the certificate's verification QR code
// @Description  Generates and stores the QR image on first request
// @Tags         certificates
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Success      200 {object} APIResponse[certapp.CertificateDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id}/qr [get]
func (h *CertificateHandler) QRCode(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	result, err := h.certService.EnsureQRCode(c.Request.Context(), brandID, certID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PDF godoc
// @ID           certificatePDF
// @Summary      Download the certificate sheet as PDF
// @Tags         certificates
// @Produce      application/pdf
// @Param        id path string true "Certificate ID"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /certificates/{id}/pdf [get]
func (h *CertificateHandler) PDF(c *gin.Context) {
	brandID, certID, ok := h.brandAndCertParam(c)
	if !ok {
		return
	}

	result, err := h.certService.RenderPDF(c.Request.Context(), brandID, certID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

// PublicVerify godoc
// @ID           verifyCertificate
// @Summary      Verify a certificate by serial number
// @Description  Public endpoint backing the QR code scan; no authentication required
// @Tags         verify
// @Produce      json
// @Param        serial path string true "Certificate serial number"
// @Success      200 {object} APIResponse[certapp.VerifyResult]
// @Failure      404 {object} ErrorResponse
// @Router       /verify/{serial} [get]
func (h *CertificateHandler) PublicVerify(c *gin.Context) {
	serial := c.Param("serial")
	if serial == "" {
		h.BadRequest(c, "Missing serial number")
		return
	}

	result, err := h.certService.PublicVerify(c.Request.Context(), serial)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// brandAndCertParam resolves the brand from the JWT and the certificate
// from the path, writing the error response on failure
func (h *CertificateHandler) brandAndCertParam(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return uuid.Nil, uuid.Nil, false
	}

	certID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid certificate ID")
		return uuid.Nil, uuid.Nil, false
	}

	return brandID, certID, true
}

// optionalUUID parses an optional UUID string field, writing the error
// response on failure
func (h *CertificateHandler) optionalUUID(c *gin.Context, raw *string, field string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+field)
		return nil, false
	}
	return &id, true
}
