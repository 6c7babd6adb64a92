package handler

import (
	"context"
	"strconv"

	manufacturerapp "github.com/brandcert/backend/internal/application/manufacturer"
	"github.com/brandcert/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManufacturerHandler handles the manufacturer catalog, partnerships and
// matching endpoints
type ManufacturerHandler struct {
	BaseHandler
	manufacturerService *manufacturerapp.Service
	matchingService     *manufacturerapp.MatchingService
}

// NewManufacturerHandler creates a new ManufacturerHandler
func NewManufacturerHandler(manufacturerService *manufacturerapp.Service, matchingService *manufacturerapp.MatchingService) *ManufacturerHandler {
	return &ManufacturerHandler{
		manufacturerService: manufacturerService,
		matchingService:     matchingService,
	}
}

// CreateManufacturerRequest represents a new catalog entry
// @Description Request body for listing a manufacturer in the catalog
type CreateManufacturerRequest struct {
	Name              string   `json:"name" binding:"required,min=2,max=200" example:"Shenzhen Apex Electronics"`
	Country           string   `json:"country" binding:"required,len=2" example:"CN"`
	RegionsServed     []string `json:"regions_served" binding:"required,min=1,dive,min=2"`
	ProductCategories []string `json:"product_categories" binding:"required,min=1,dive,min=2"`
	Certifications    []string `json:"certifications" binding:"dive,min=2"`
	MinOrderQty       int      `json:"min_order_qty" binding:"required,min=1" example:"500"`
	LeadTimeDays      int      `json:"lead_time_days" binding:"required,min=1,max=365" example:"30"`
	MonthlyCapacity   int      `json:"monthly_capacity" binding:"required,min=1" example:"100000"`
	UnitCostMin       string   `json:"unit_cost_min" binding:"required" example:"1.20"`
	UnitCostMax       string   `json:"unit_cost_max" binding:"required" example:"4.80"`
	ContactEmail      string   `json:"contact_email" binding:"omitempty,email,max=200"`
	Website           string   `json:"website" binding:"omitempty,url,max=500"`
}

// UpdateManufacturerRequest represents a catalog profile replacement
// @Description Request body for updating a manufacturer's catalog profile
type UpdateManufacturerRequest struct {
	Name              string   `json:"name" binding:"required,min=2,max=200"`
	RegionsServed     []string `json:"regions_served" binding:"required,min=1,dive,min=2"`
	ProductCategories []string `json:"product_categories" binding:"required,min=1,dive,min=2"`
	Certifications    []string `json:"certifications" binding:"dive,min=2"`
	MinOrderQty       int      `json:"min_order_qty" binding:"required,min=1"`
	LeadTimeDays      int      `json:"lead_time_days" binding:"required,min=1,max=365"`
	MonthlyCapacity   int      `json:"monthly_capacity" binding:"required,min=1"`
	UnitCostMin       string   `json:"unit_cost_min" binding:"required"`
	UnitCostMax       string   `json:"unit_cost_max" binding:"required"`
	ContactEmail      string   `json:"contact_email" binding:"omitempty,email,max=200"`
	Website           string   `json:"website" binding:"omitempty,url,max=500"`
	Rating            *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
}

// RequestPartnershipRequest represents a partnership request
// @Description Request body for requesting a partnership with a manufacturer
type RequestPartnershipRequest struct {
	ManufacturerID string `json:"manufacturer_id" binding:"required,uuid" example:"4f7b44a0-91a9-4f0e-b570-4a6c3f2e0c11"`
}

// Create godoc
// @ID           createManufacturer
// @Summary      List a manufacturer in the catalog
// @Tags         manufacturers
// @Accept       json
// @Produce      json
// @Param        request body CreateManufacturerRequest true "Manufacturer details"
// @Success      201 {object} APIResponse[manufacturerapp.ManufacturerDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers [post]
func (h *ManufacturerHandler) Create(c *gin.Context) {
	var req CreateManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	costMin, costMax, ok := h.parseCostRange(c, req.UnitCostMin, req.UnitCostMax)
	if !ok {
		return
	}

	result, err := h.manufacturerService.Create(c.Request.Context(), manufacturerapp.CreateManufacturerInput{
		Name:              req.Name,
		Country:           req.Country,
		RegionsServed:     req.RegionsServed,
		ProductCategories: req.ProductCategories,
		Certifications:    req.Certifications,
		MinOrderQty:       req.MinOrderQty,
		LeadTimeDays:      req.LeadTimeDays,
		MonthlyCapacity:   req.MonthlyCapacity,
		UnitCostMin:       costMin,
		UnitCostMax:       costMax,
		ContactEmail:      req.ContactEmail,
		Website:           req.Website,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update godoc
// @ID           updateManufacturer
// @Summary      Update a manufacturer's catalog profile
// @Tags         manufacturers
// @Accept       json
// @Produce      json
// @Param        id path string true "Manufacturer ID"
// @Param        request body UpdateManufacturerRequest true "Profile replacement"
// @Success      200 {object} APIResponse[manufacturerapp.ManufacturerDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers/{id} [put]
func (h *ManufacturerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID")
		return
	}

	var req UpdateManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	costMin, costMax, ok := h.parseCostRange(c, req.UnitCostMin, req.UnitCostMax)
	if !ok {
		return
	}

	result, err := h.manufacturerService.Update(c.Request.Context(), id, manufacturerapp.UpdateManufacturerInput{
		Name:              req.Name,
		RegionsServed:     req.RegionsServed,
		ProductCategories: req.ProductCategories,
		Certifications:    req.Certifications,
		MinOrderQty:       req.MinOrderQty,
		LeadTimeDays:      req.LeadTimeDays,
		MonthlyCapacity:   req.MonthlyCapacity,
		UnitCostMin:       costMin,
		UnitCostMax:       costMax,
		ContactEmail:      req.ContactEmail,
		Website:           req.Website,
		Rating:            req.Rating,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Verify godoc
// @ID           verifyManufacturer
// @Summary      Mark a manufacturer as verified
// @Tags         manufacturers
// @Produce      json
// @Param        id path string true "Manufacturer ID"
// @Success      200 {object} APIResponse[manufacturerapp.ManufacturerDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers/{id}/verify [post]
func (h *ManufacturerHandler) Verify(c *gin.Context) {
	h.changeStatus(c, h.manufacturerService.Verify)
}

// Activate godoc
// @ID           activateManufacturer
// @Summary      Return a manufacturer to the active catalog
// @Tags         manufacturers
// @Produce      json
// @Param        id path string true "Manufacturer ID"
// @Success      200 {object} APIResponse[manufacturerapp.ManufacturerDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers/{id}/activate [post]
func (h *ManufacturerHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.manufacturerService.Activate)
}

// Deactivate godoc
// @ID           deactivateManufacturer
// @Summary      Hide a manufacturer from the catalog and matching
// @Tags         manufacturers
// @Produce      json
// @Param        id path string true "Manufacturer ID"
// @Success      200 {object} APIResponse[manufacturerapp.ManufacturerDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers/{id}/deactivate [post]
func (h *ManufacturerHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.manufacturerService.Deactivate)
}

// Delete godoc
// @ID           deleteManufacturer
// @Summary      Remove a manufacturer from the catalog
// @Description  Fails while active partnerships reference the manufacturer
// @Tags         manufacturers
// @Produce      json
// @Param        id path string true "Manufacturer ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers/{id} [delete]
func (h *ManufacturerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID")
		return
	}

	if err := h.manufacturerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID godoc
// @ID           getManufacturer
// @Summary      Get a manufacturer by ID
// @Tags         manufacturers
// @Produce      json
// @Param        id path string true "Manufacturer ID"
// @Success      200 {object} APIResponse[manufacturerapp.ManufacturerDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers/{id} [get]
func (h *ManufacturerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID")
		return
	}

	result, err := h.manufacturerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @ID           listManufacturers
// @Summary      Browse the manufacturer catalog
// @Tags         manufacturers
// @Produce      json
// @Param        keyword query string false "Search keyword (name)"
// @Param        country query string false "Filter by ISO country code"
// @Param        category query string false "Filter by product category"
// @Param        certification query string false "Filter by certification"
// @Param        verified query bool false "Only verified manufacturers"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[manufacturerapp.ManufacturerListResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers [get]
func (h *ManufacturerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	input := manufacturerapp.ListManufacturersInput{
		Keyword:       c.Query("keyword"),
		Country:       c.Query("country"),
		Category:      c.Query("category"),
		Certification: c.Query("certification"),
		Status:        c.Query("status"),
		Page:          page,
		PageSize:      pageSize,
		SortBy:        c.Query("sort_by"),
		SortDir:       c.Query("sort_dir"),
	}
	if raw := c.Query("verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid verified filter")
			return
		}
		input.Verified = &verified
	}

	result, err := h.manufacturerService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Manufacturers, result.Total, result.Page, result.PageSize)
}

// Match godoc
// @ID           matchManufacturers
// @Summary      Rank manufacturers for the current brand
// @Description  Scores active manufacturers against the brand's industry, markets and requested volume
// @Tags         manufacturers
// @Produce      json
// @Param        volume query int false "Requested monthly volume"
// @Param        limit query int false "Maximum results" default(20)
// @Param        exclude_partners query bool false "Exclude current partners"
// @Success      200 {object} APIResponse[[]manufacturerapp.MatchResultDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /manufacturers/matches [get]
func (h *ManufacturerHandler) Match(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	volume, _ := strconv.Atoi(c.DefaultQuery("volume", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	excludePartners, _ := strconv.ParseBool(c.DefaultQuery("exclude_partners", "false"))

	results, err := h.matchingService.Match(c.Request.Context(), manufacturerapp.MatchInput{
		BrandID:         brandID,
		RequestedVolume: volume,
		Limit:           limit,
		ExcludePartners: excludePartners,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// RequestPartnership godoc
// @ID           requestPartnership
// @Summary      Request a partnership with a manufacturer
// @Tags         partnerships
// @Accept       json
// @Produce      json
// @Param        request body RequestPartnershipRequest true "Partnership request"
// @Success      201 {object} APIResponse[manufacturerapp.PartnershipDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partnerships [post]
func (h *ManufacturerHandler) RequestPartnership(c *gin.Context) {
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

	var req RequestPartnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	manufacturerID, err := uuid.Parse(req.ManufacturerID)
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID")
		return
	}

	result, err := h.manufacturerService.RequestPartnership(c.Request.Context(), brandID, manufacturerapp.RequestPartnershipInput{
		ManufacturerID: manufacturerID,
		RequestedBy:    userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// AcceptPartnership godoc
// @ID           acceptPartnership
// @Summary      Accept a pending partnership
// @Tags         partnerships
// @Produce      json
// @Param        id path string true "Partnership ID"
// @Success      200 {object} APIResponse[manufacturerapp.PartnershipDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partnerships/{id}/accept [post]
func (h *ManufacturerHandler) AcceptPartnership(c *gin.Context) {
	h.withPartnership(c, h.manufacturerService.AcceptPartnership)
}

// EndPartnership godoc
// @ID           endPartnership
// @Summary      End an active partnership
// @Tags         partnerships
// @Produce      json
// @Param        id path string true "Partnership ID"
// @Success      200 {object} APIResponse[manufacturerapp.PartnershipDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partnerships/{id}/end [post]
func (h *ManufacturerHandler) EndPartnership(c *gin.Context) {
	h.withPartnership(c, h.manufacturerService.EndPartnership)
}

// GetPartnership godoc
// @ID           getPartnership
// @Summary      Get a partnership
// @Tags         partnerships
// @Produce      json
// @Param        id path string true "Partnership ID"
// @Success      200 {object} APIResponse[manufacturerapp.PartnershipDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partnerships/{id} [get]
func (h *ManufacturerHandler) GetPartnership(c *gin.Context) {
	h.withPartnership(c, h.manufacturerService.GetPartnership)
}

// ListPartnerships godoc
// @ID           listPartnerships
// @Summary      List the brand's partnerships
// @Tags         partnerships
// @Produce      json
// @Success      200 {object} APIResponse[[]manufacturerapp.PartnershipDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partnerships [get]
func (h *ManufacturerHandler) ListPartnerships(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	results, err := h.manufacturerService.ListPartnerships(c.Request.Context(), brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

type manufacturerStatusChange func(ctx context.Context, manufacturerID uuid.UUID) (*manufacturerapp.ManufacturerDTO, error)

func (h *ManufacturerHandler) changeStatus(c *gin.Context, change manufacturerStatusChange) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID")
		return
	}

	result, err := change(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type partnershipOp func(ctx context.Context, brandID, partnershipID uuid.UUID) (*manufacturerapp.PartnershipDTO, error)

func (h *ManufacturerHandler) withPartnership(c *gin.Context, change partnershipOp) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partnership ID")
		return
	}

	result, err := change(c.Request.Context(), brandID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// parseCostRange parses the decimal cost bounds, writing the error response
// on failure
func (h *ManufacturerHandler) parseCostRange(c *gin.Context, minRaw, maxRaw string) (decimal.Decimal, decimal.Decimal, bool) {
	costMin, err := decimal.NewFromString(minRaw)
	if err != nil {
		h.BadRequest(c, "Invalid unit_cost_min")
		return decimal.Zero, decimal.Zero, false
	}
	costMax, err := decimal.NewFromString(maxRaw)
	if err != nil {
		h.BadRequest(c, "Invalid unit_cost_max")
		return decimal.Zero, decimal.Zero, false
	}
	return costMin, costMax, true
}
