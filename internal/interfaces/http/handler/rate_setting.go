package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/talabia/backend/internal/application/ledger"
	"github.com/talabia/backend/internal/domain/rates"
)

// RateSettingHandler handles rate configuration API endpoints
type RateSettingHandler struct {
	BaseHandler
	rateSettingService *ledgerapp.RateSettingService
}

// NewRateSettingHandler creates a new RateSettingHandler
func NewRateSettingHandler(rateSettingService *ledgerapp.RateSettingService) *RateSettingHandler {
	return &RateSettingHandler{
		rateSettingService: rateSettingService,
	}
}

// ===================== Request/Response DTOs =====================

// CreateRateSettingRequest represents a request to configure a rate
// @Description Request body for configuring a VAT or commission rate
type CreateRateSettingRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=100" example:"Standard VAT"`
	AppliesTo string  `json:"applies_to" binding:"required,oneof=platform tax payment_gateway custom" example:"tax"`
	Percent   float64 `json:"percent" binding:"required,gte=0,lte=100" example:"15"`
}

// UpdateRateSettingRequest represents a request to change a configured percentage
// @Description Request body for updating a rate setting's percentage
type UpdateRateSettingRequest struct {
	Percent float64 `json:"percent" binding:"required,gte=0,lte=100" example:"12.5"`
}

// RateSettingResponse represents a rate setting in API responses
// @Description Rate setting response
type RateSettingResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID  string    `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name      string    `json:"name" example:"Standard VAT"`
	AppliesTo string    `json:"applies_to" example:"tax"`
	Percent   float64   `json:"percent" example:"15"`
	Active    bool      `json:"active" example:"true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version" example:"1"`
}

// ===================== Converters =====================

func toRateSettingResponse(s *rates.Setting) RateSettingResponse {
	return RateSettingResponse{
		ID:        s.ID.String(),
		TenantID:  s.TenantID.String(),
		Name:      s.Name,
		AppliesTo: s.AppliesTo.String(),
		Percent:   s.Percent.InexactFloat64(),
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

func toRateSettingResponses(settings []rates.Setting) []RateSettingResponse {
	responses := make([]RateSettingResponse, len(settings))
	for i := range settings {
		responses[i] = toRateSettingResponse(&settings[i])
	}
	return responses
}

// ===================== Rate Setting Handlers =====================

// ListRateSettings godoc
// @Summary      List rate settings
// @Description  Retrieve all configured rate settings for the tenant
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} dto.Response{data=[]RateSettingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rates [get]
func (h *RateSettingHandler) ListRateSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	settings, err := h.rateSettingService.ListSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toRateSettingResponses(settings))
}

// CreateRateSetting godoc
// @Summary      Create rate setting
// @Description  Configure a new active rate; a previously active setting for the same applies_to is deactivated
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreateRateSettingRequest true "Rate configuration"
// @Success      201 {object} dto.Response{data=RateSettingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rates [post]
func (h *RateSettingHandler) CreateRateSetting(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateRateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	setting, err := h.rateSettingService.CreateSetting(c.Request.Context(), ledgerapp.CreateSettingRequest{
		TenantID:  tenantID,
		Name:      req.Name,
		AppliesTo: rates.AppliesTo(req.AppliesTo),
		Percent:   toDecimal(req.Percent),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toRateSettingResponse(setting))
}

// UpdateRateSetting godoc
// @Summary      Update rate setting
// @Description  Change the percentage of an existing rate setting; running orders keep their snapshotted rates
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Rate setting ID" format(uuid)
// @Param        request body UpdateRateSettingRequest true "New percentage"
// @Success      200 {object} dto.Response{data=RateSettingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rates/{id} [put]
func (h *RateSettingHandler) UpdateRateSetting(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	settingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rate setting ID format")
		return
	}

	var req UpdateRateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	setting, err := h.rateSettingService.UpdateSettingPercent(c.Request.Context(), tenantID, settingID, toDecimal(req.Percent))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toRateSettingResponse(setting))
}

// DeactivateRateSetting godoc
// @Summary      Deactivate rate setting
// @Description  Mark a rate setting inactive so checkouts fall back to the default rate
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Rate setting ID" format(uuid)
// @Success      200 {object} dto.Response{data=RateSettingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rates/{id} [delete]
func (h *RateSettingHandler) DeactivateRateSetting(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	settingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rate setting ID format")
		return
	}

	setting, err := h.rateSettingService.DeactivateSetting(c.Request.Context(), tenantID, settingID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toRateSettingResponse(setting))
}
