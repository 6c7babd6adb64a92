package handler

import (
	"context"
	"strconv"

	brandapp "github.com/brandcert/backend/internal/application/brand"
	"github.com/brandcert/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BrandHandler handles the brand's own profile plus the platform-admin
// brand directory
type BrandHandler struct {
	BaseHandler
	brandService *brandapp.Service
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService *brandapp.Service) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// UpdateBrandProfileRequest represents a brand profile update
// @Description Request body for updating the brand profile
type UpdateBrandProfileRequest struct {
	Name              string   `json:"name" binding:"required,min=1,max=200" example:"Acme Apparel"`
	LegalName         string   `json:"legal_name" binding:"max=300" example:"Acme Apparel Holdings Ltd."`
	Website           string   `json:"website" binding:"omitempty,url,max=300" example:"https://acme.example.com"`
	LogoURL           string   `json:"logo_url" binding:"omitempty,url,max=500"`
	FoundedYear       int      `json:"founded_year" binding:"omitempty,min=1800,max=2100" example:"2012"`
	ProductCategories []string `json:"product_categories" binding:"max=50,dive,min=1,max=100"`
	TargetMarkets     []string `json:"target_markets" binding:"max=100,dive,len=2" example:"US,DE"`
	ContactName       string   `json:"contact_name" binding:"max=100" example:"Jane Doe"`
	ContactEmail      string   `json:"contact_email" binding:"omitempty,email,max=200"`
	ContactPhone      string   `json:"contact_phone" binding:"max=50"`
	Address           string   `json:"address" binding:"max=500"`
}

// ChangePlanRequest represents a plan change request
// @Description Request body for switching the brand's plan
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=free growth enterprise" example:"growth"`
}

// GetMe godoc
// @ID           getOwnBrand
// @Summary      Get the caller's brand profile
// @Tags         brands
// @Produce      json
// @Success      200 {object} APIResponse[brandapp.BrandDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/me [get]
func (h *BrandHandler) GetMe(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	dto, err := h.brandService.Get(c.Request.Context(), brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}

// UpdateMe godoc
// @ID           updateOwnBrand
// @Summary      Update the caller's brand profile
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        request body UpdateBrandProfileRequest true "Profile update"
// @Success      200 {object} APIResponse[brandapp.BrandDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/me [put]
func (h *BrandHandler) UpdateMe(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	var req UpdateBrandProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dto, err := h.brandService.UpdateProfile(c.Request.Context(), brandID, brandapp.UpdateProfileInput{
		Name:              req.Name,
		LegalName:         req.LegalName,
		Website:           req.Website,
		LogoURL:           req.LogoURL,
		FoundedYear:       req.FoundedYear,
		ProductCategories: req.ProductCategories,
		TargetMarkets:     req.TargetMarkets,
		ContactName:       req.ContactName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		Address:           req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}

// ChangePlan godoc
// @ID           changeBrandPlan
// @Summary      Switch the brand's plan
// @Description  Changes the plan and re-derives the brand's quotas
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        request body ChangePlanRequest true "Target plan"
// @Success      200 {object} APIResponse[brandapp.BrandDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/me/plan [post]
func (h *BrandHandler) ChangePlan(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dto, err := h.brandService.ChangePlan(c.Request.Context(), brandID, req.Plan)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}

// Usage godoc
// @ID           getBrandUsage
// @Summary      Report the brand's quota consumption
// @Tags         brands
// @Produce      json
// @Success      200 {object} APIResponse[brandapp.UsageDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/me/usage [get]
func (h *BrandHandler) Usage(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	usage, err := h.brandService.Usage(c.Request.Context(), brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, usage)
}

// List godoc
// @ID           listBrands
// @Summary      List brands (platform admin)
// @Tags         brands
// @Produce      json
// @Param        keyword query string false "Search keyword (code or name)"
// @Param        status query string false "Filter by status"
// @Param        industry query string false "Filter by industry"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[brandapp.BrandListResult]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands [get]
func (h *BrandHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.brandService.List(c.Request.Context(), brandapp.ListBrandsInput{
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
		Industry: c.Query("industry"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Brands, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @ID           getBrand
// @Summary      Get a brand by ID (platform admin)
// @Tags         brands
// @Produce      json
// @Param        id path string true "Brand ID"
// @Success      200 {object} APIResponse[brandapp.BrandDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [get]
func (h *BrandHandler) GetByID(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	dto, err := h.brandService.Get(c.Request.Context(), brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}

// Stats godoc
// @ID           getBrandStats
// @Summary      Platform-wide brand counts by status (platform admin)
// @Tags         brands
// @Produce      json
// @Success      200 {object} APIResponse[brandapp.StatsDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/stats [get]
func (h *BrandHandler) Stats(c *gin.Context) {
	stats, err := h.brandService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Activate godoc
// @ID           activateBrand
// @Summary      Activate a brand (platform admin)
// @Tags         brands
// @Produce      json
// @Param        id path string true "Brand ID"
// @Success      200 {object} APIResponse[brandapp.BrandDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id}/activate [post]
func (h *BrandHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.brandService.Activate)
}

// Suspend godoc
// @ID           suspendBrand
// @Summary      Suspend a brand (platform admin)
// @Description  Suspended brands keep their data but cannot mint certificates
// @Tags         brands
// @Produce      json
// @Param        id path string true "Brand ID"
// @Success      200 {object} APIResponse[brandapp.BrandDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id}/suspend [post]
func (h *BrandHandler) Suspend(c *gin.Context) {
	h.changeStatus(c, h.brandService.Suspend)
}

// Deactivate godoc
// @ID           deactivateBrand
// @Summary      Deactivate a brand (platform admin)
// @Tags         brands
// @Produce      json
// @Param        id path string true "Brand ID"
// @Success      200 {object} APIResponse[brandapp.BrandDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id}/deactivate [post]
func (h *BrandHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.brandService.Deactivate)
}

// Delete godoc
// @ID           deleteBrand
// @Summary      Soft-delete a brand (platform admin)
// @Tags         brands
// @Produce      json
// @Param        id path string true "Brand ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [delete]
func (h *BrandHandler) Delete(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	if err := h.brandService.SoftDelete(c.Request.Context(), brandID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type brandStatusChange func(ctx context.Context, brandID uuid.UUID) (*brandapp.BrandDTO, error)

func (h *BrandHandler) changeStatus(c *gin.Context, change brandStatusChange) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	dto, err := change(c.Request.Context(), brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}
