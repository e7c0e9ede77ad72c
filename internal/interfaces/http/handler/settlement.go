package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/talabia/backend/internal/application/ledger"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
)

// SettlementHandler handles settlement payout API endpoints
type SettlementHandler struct {
	BaseHandler
	settlementService *ledgerapp.SettlementService
	accountingService *ledgerapp.AccountingService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *ledgerapp.SettlementService, accountingService *ledgerapp.AccountingService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		accountingService: accountingService,
	}
}

// ===================== Request/Response DTOs =====================

// RecipientQuery identifies the settlement recipient in query parameters
type RecipientQuery struct {
	RecipientType string `form:"recipient_type" binding:"required,oneof=MERCHANT COURIER"`
	RecipientID   string `form:"recipient_id" binding:"required,uuid"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateSettlementRequest represents a payout request
// @Description Request body for paying out (part of) a recipient's outstanding due
type CreateSettlementRequest struct {
	RecipientType    string  `json:"recipient_type" binding:"required,oneof=MERCHANT COURIER" example:"MERCHANT"`
	RecipientID      string  `json:"recipient_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Amount           float64 `json:"amount" binding:"required,gt=0" example:"450.00"`
	PaymentMethod    string  `json:"payment_method" binding:"required" example:"BANK_TRANSFER"`
	PaymentReference string  `json:"payment_reference" example:"TRF-20260829-001"`
}

// DueSummaryResponse represents a recipient's settlement position in API responses
// @Description Recipient outstanding due summary
type DueSummaryResponse struct {
	RecipientType      string  `json:"recipient_type" example:"MERCHANT"`
	RecipientID        string  `json:"recipient_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	GrossDelivered     float64 `json:"gross_delivered" example:"1250.00"`
	SettledTotal       float64 `json:"settled_total" example:"800.00"`
	OutstandingDue     float64 `json:"outstanding_due" example:"450.00"`
	PendingAdjustments float64 `json:"pending_adjustments" example:"0"`
}

// SettlementItemResponse represents a settlement's order-level breakdown in API responses
// @Description Settlement item response
type SettlementItemResponse struct {
	ID         string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrderID    string  `json:"order_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Amount     float64 `json:"amount" example:"45.00"`
	VATAmount  float64 `json:"vat_amount" example:"6.52"`
	Commission float64 `json:"commission" example:"5.00"`
}

// SettlementResponse represents a settlement in API responses
// @Description Settlement response
type SettlementResponse struct {
	ID               string                   `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID         string                   `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	SettlementNumber string                   `json:"settlement_number" example:"STL-202608-00001"`
	RecipientType    string                   `json:"recipient_type" example:"MERCHANT"`
	RecipientID      string                   `json:"recipient_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	TotalAmount      float64                  `json:"total_amount" example:"450.00"`
	PaymentMethod    string                   `json:"payment_method" example:"BANK_TRANSFER"`
	PaymentReference string                   `json:"payment_reference,omitempty" example:"TRF-20260829-001"`
	Status           string                   `json:"status" example:"COMPLETED"`
	JournalEntryID   *string                  `json:"journal_entry_id,omitempty"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
	Items            []SettlementItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Version          int                      `json:"version" example:"1"`
}

// RecipientDueSummaryResponse represents a recipient's due and payout history
// @Description Recipient due with settlement history
type RecipientDueSummaryResponse struct {
	Due         DueSummaryResponse   `json:"due"`
	Settlements []SettlementResponse `json:"settlements"`
}

// ===================== Converters =====================

func toDueSummaryResponse(due *ledgerapp.DueSummary) DueSummaryResponse {
	return DueSummaryResponse{
		RecipientType:      due.RecipientType.String(),
		RecipientID:        due.RecipientID.String(),
		GrossDelivered:     due.GrossDelivered.InexactFloat64(),
		SettledTotal:       due.SettledTotal.InexactFloat64(),
		OutstandingDue:     due.OutstandingDue.InexactFloat64(),
		PendingAdjustments: due.PendingAdjustments.InexactFloat64(),
	}
}

func toSettlementResponse(stl *settlement.Settlement) SettlementResponse {
	resp := SettlementResponse{
		ID:               stl.ID.String(),
		TenantID:         stl.TenantID.String(),
		SettlementNumber: stl.SettlementNumber,
		RecipientType:    stl.RecipientType.String(),
		RecipientID:      stl.RecipientID.String(),
		TotalAmount:      stl.TotalAmount.InexactFloat64(),
		PaymentMethod:    stl.PaymentMethod,
		PaymentReference: stl.PaymentReference,
		Status:           stl.Status.String(),
		CompletedAt:      stl.CompletedAt,
		CreatedAt:        stl.CreatedAt,
		UpdatedAt:        stl.UpdatedAt,
		Version:          stl.Version,
	}
	if stl.JournalEntryID != nil {
		entryID := stl.JournalEntryID.String()
		resp.JournalEntryID = &entryID
	}
	for _, item := range stl.Items {
		resp.Items = append(resp.Items, SettlementItemResponse{
			ID:         item.ID.String(),
			OrderID:    item.OrderID.String(),
			Amount:     item.Amount.InexactFloat64(),
			VATAmount:  item.VATAmount.InexactFloat64(),
			Commission: item.Commission.InexactFloat64(),
		})
	}
	return resp
}

func toSettlementResponses(settlements []settlement.Settlement) []SettlementResponse {
	responses := make([]SettlementResponse, len(settlements))
	for i := range settlements {
		responses[i] = toSettlementResponse(&settlements[i])
	}
	return responses
}

// ===================== Settlement Handlers =====================

// GetOutstandingDue godoc
// @Summary      Get outstanding due
// @Description  Recompute what the platform currently owes a merchant or courier
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        recipient_type query string true "Recipient type" Enums(MERCHANT, COURIER)
// @Param        recipient_id query string true "Recipient ID" format(uuid)
// @Success      200 {object} dto.Response{data=DueSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /settlements/due [get]
func (h *SettlementHandler) GetOutstandingDue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query RecipientQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	recipientID, err := uuid.Parse(query.RecipientID)
	if err != nil {
		h.BadRequest(c, "Invalid recipient ID format")
		return
	}

	due, err := h.settlementService.OutstandingDue(c.Request.Context(), ledgerapp.DueRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientType(query.RecipientType),
		RecipientID:   recipientID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toDueSummaryResponse(due))
}

// ListSettlements godoc
// @Summary      List settlements
// @Description  Retrieve a recipient's due position together with their settlement history
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        recipient_type query string true "Recipient type" Enums(MERCHANT, COURIER)
// @Param        recipient_id query string true "Recipient ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=RecipientDueSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /settlements [get]
func (h *SettlementHandler) ListSettlements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query RecipientQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	recipientID, err := uuid.Parse(query.RecipientID)
	if err != nil {
		h.BadRequest(c, "Invalid recipient ID format")
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	summary, err := h.accountingService.DueSummary(c.Request.Context(), ledgerapp.DueRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientType(query.RecipientType),
		RecipientID:   recipientID,
	}, shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, RecipientDueSummaryResponse{
		Due:         toDueSummaryResponse(summary.Due),
		Settlements: toSettlementResponses(summary.Settlements),
	})
}

// CreateSettlement godoc
// @Summary      Create settlement
// @Description  Pay out an amount against a recipient's outstanding due; the due is re-validated inside the transaction
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreateSettlementRequest true "Payout request"
// @Success      201 {object} dto.Response{data=SettlementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /settlements [post]
func (h *SettlementHandler) CreateSettlement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		h.BadRequest(c, "Invalid recipient ID format")
		return
	}

	stl, err := h.settlementService.CreateSettlement(c.Request.Context(), ledgerapp.CreateSettlementRequest{
		TenantID:         tenantID,
		RecipientType:    settlement.RecipientType(req.RecipientType),
		RecipientID:      recipientID,
		Amount:           toDecimal(req.Amount),
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toSettlementResponse(stl))
}
