package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/talabia/backend/internal/application/ledger"
	"github.com/talabia/backend/internal/domain/refund"
)

// RefundHandler handles refund reversal API endpoints
type RefundHandler struct {
	BaseHandler
	refundService *ledgerapp.RefundService
}

// NewRefundHandler creates a new RefundHandler
func NewRefundHandler(refundService *ledgerapp.RefundService) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
	}
}

// ===================== Request/Response DTOs =====================

// RefundLineRequest represents a request to refund (part of) an order line
// @Description Request body for reversing an order line's financials
type RefundLineRequest struct {
	RefundType string `json:"refund_type" binding:"required,oneof=FULL PARTIAL" example:"PARTIAL"`
	// Amount is the inc-VAT portion to reverse; required for PARTIAL, ignored for FULL
	Amount float64 `json:"amount" binding:"omitempty,gt=0" example:"25.00"`
	Reason string  `json:"reason" binding:"required,min=1,max=500" example:"Item arrived damaged"`
}

// RefundResponse represents a processed refund in API responses
// @Description Refund reversal response
type RefundResponse struct {
	ID                string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID          string `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	OrderID           string `json:"order_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	OrderItemDetailID string `json:"order_item_detail_id" example:"550e8400-e29b-41d4-a716-446655440003"`
	RefundType        string `json:"refund_type" example:"PARTIAL"`
	Reason            string `json:"reason" example:"Item arrived damaged"`

	AmountIncVAT    float64 `json:"amount_inc_vat" example:"25.00"`
	AmountExVAT     float64 `json:"amount_ex_vat" example:"21.74"`
	VATAmount       float64 `json:"vat_amount" example:"3.26"`
	CommissionExVAT float64 `json:"commission_ex_vat" example:"2.17"`
	CommissionVAT   float64 `json:"commission_vat" example:"0.33"`
	CommissionTotal float64 `json:"commission_total" example:"2.50"`
	MerchantPayout  float64 `json:"merchant_payout" example:"22.50"`

	Status         string     `json:"status" example:"PROCESSED"`
	JournalEntryID *string    `json:"journal_entry_id,omitempty"`
	AdjustmentID   *string    `json:"adjustment_id,omitempty"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version" example:"1"`
}

// ===================== Converters =====================

func toRefundResponse(r *refund.OrderRefund) RefundResponse {
	resp := RefundResponse{
		ID:                r.ID.String(),
		TenantID:          r.TenantID.String(),
		OrderID:           r.OrderID.String(),
		OrderItemDetailID: r.OrderItemDetailID.String(),
		RefundType:        r.RefundType.String(),
		Reason:            r.Reason,
		AmountIncVAT:      r.AmountIncVAT.InexactFloat64(),
		AmountExVAT:       r.AmountExVAT.InexactFloat64(),
		VATAmount:         r.VATAmount.InexactFloat64(),
		CommissionExVAT:   r.CommissionExVAT.InexactFloat64(),
		CommissionVAT:     r.CommissionVAT.InexactFloat64(),
		CommissionTotal:   r.CommissionTotal.InexactFloat64(),
		MerchantPayout:    r.MerchantPayout.InexactFloat64(),
		Status:            r.Status.String(),
		ProcessedAt:       r.ProcessedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
	if r.JournalEntryID != nil {
		entryID := r.JournalEntryID.String()
		resp.JournalEntryID = &entryID
	}
	if r.AdjustmentID != nil {
		adjustmentID := r.AdjustmentID.String()
		resp.AdjustmentID = &adjustmentID
	}
	return resp
}

func toRefundResponses(refunds []refund.OrderRefund) []RefundResponse {
	responses := make([]RefundResponse, len(refunds))
	for i := range refunds {
		responses[i] = toRefundResponse(&refunds[i])
	}
	return responses
}

// ===================== Refund Handlers =====================

// RefundLine godoc
// @Summary      Refund order line
// @Description  Reverse (part of) an order line's financials; pass an Idempotency-Key header to retry safely
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        Idempotency-Key header string false "Idempotency key; a key that was already processed is rejected"
// @Param        id path string true "Order ID" format(uuid)
// @Param        line_id path string true "Order line ID" format(uuid)
// @Param        request body RefundLineRequest true "Refund request"
// @Success      201 {object} dto.Response{data=RefundResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/lines/{line_id}/refunds [post]
func (h *RefundHandler) RefundLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order line ID format")
		return
	}

	var req RefundLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.refundService.RefundLine(c.Request.Context(), ledgerapp.RefundLineRequest{
		TenantID:          tenantID,
		OrderID:           orderID,
		OrderItemDetailID: lineID,
		RefundType:        refund.Type(req.RefundType),
		Amount:            toDecimal(req.Amount),
		Reason:            req.Reason,
		IdempotencyKey:    c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toRefundResponse(created))
}
