package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/talabia/backend/internal/application/ledger"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/shared"
)

// JournalHandler handles journal reporting API endpoints
type JournalHandler struct {
	BaseHandler
	accountingService *ledgerapp.AccountingService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(accountingService *ledgerapp.AccountingService) *JournalHandler {
	return &JournalHandler{
		accountingService: accountingService,
	}
}

// ===================== Response DTOs =====================

// JournalLineResponse represents one journal entry line in API responses
// @Description Journal entry line response
type JournalLineResponse struct {
	ID        string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	AccountID string  `json:"account_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Debit     float64 `json:"debit" example:"60.00"`
	Credit    float64 `json:"credit" example:"0"`
	Memo      string  `json:"memo,omitempty" example:"Customer payment captured"`
}

// JournalEntryResponse represents a journal entry in API responses
// @Description Journal entry response
type JournalEntryResponse struct {
	ID            string                `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID      string                `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	EntryNumber   string                `json:"entry_number" example:"JE-202608-00001"`
	ReferenceType string                `json:"reference_type" example:"ORDER"`
	ReferenceID   string                `json:"reference_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	Description   string                `json:"description" example:"Order payment capture ORD-202608-00001"`
	TotalDebit    float64               `json:"total_debit" example:"60.00"`
	TotalCredit   float64               `json:"total_credit" example:"60.00"`
	Lines         []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ===================== Converters =====================

func toJournalEntryResponse(entry *journal.Entry) JournalEntryResponse {
	resp := JournalEntryResponse{
		ID:            entry.ID.String(),
		TenantID:      entry.TenantID.String(),
		EntryNumber:   entry.EntryNumber,
		ReferenceType: entry.ReferenceType.String(),
		ReferenceID:   entry.ReferenceID.String(),
		Description:   entry.Description,
		TotalDebit:    entry.TotalDebit.InexactFloat64(),
		TotalCredit:   entry.TotalCredit.InexactFloat64(),
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
	for _, line := range entry.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			ID:        line.ID.String(),
			AccountID: line.AccountID.String(),
			Debit:     line.Debit.InexactFloat64(),
			Credit:    line.Credit.InexactFloat64(),
			Memo:      line.Memo,
		})
	}
	return resp
}

func toJournalEntryResponses(entries []journal.Entry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = toJournalEntryResponse(&entries[i])
	}
	return responses
}

// ===================== Journal Handlers =====================

// ListJournalEntries godoc
// @Summary      List journal entries
// @Description  Retrieve a paginated list of journal entries for the tenant
// @Tags         journal
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]JournalEntryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /journal/entries [get]
func (h *JournalHandler) ListJournalEntries(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	page, err := h.accountingService.ListJournalEntries(c.Request.Context(), tenantID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toJournalEntryResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetJournalEntry godoc
// @Summary      Get journal entry
// @Description  Retrieve one journal entry with its lines
// @Tags         journal
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Journal entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=JournalEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /journal/entries/{id} [get]
func (h *JournalHandler) GetJournalEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	entry, err := h.accountingService.GetJournalEntry(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toJournalEntryResponse(entry))
}
