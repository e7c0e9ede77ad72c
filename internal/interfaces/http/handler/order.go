package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/talabia/backend/internal/application/ledger"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/shared"
)

// OrderHandler handles order checkout and lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService   *ledgerapp.CheckoutService
	accountingService *ledgerapp.AccountingService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *ledgerapp.CheckoutService, accountingService *ledgerapp.AccountingService) *OrderHandler {
	return &OrderHandler{
		checkoutService:   checkoutService,
		accountingService: accountingService,
	}
}

// ===================== Request/Response DTOs =====================

// CartLineRequest represents one cart line in a checkout request
// @Description One cart line with inclusive unit price
type CartLineRequest struct {
	ProductID string  `json:"product_id" binding:"required" example:"SKU-1001"`
	Name      string  `json:"name" binding:"required,min=1,max=200" example:"Chicken Shawarma"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0" example:"25.00"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0" example:"2"`
}

// CreateOrderRequest represents a checkout request
// @Description Request body for creating an order from a cart
type CreateOrderRequest struct {
	StoreID     string            `json:"store_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CustomerID  string            `json:"customer_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	DeliveryFee float64           `json:"delivery_fee" binding:"omitempty,gte=0" example:"10.00"`
	Lines       []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// TransitionOrderRequest represents an order status transition request
// @Description Request body for moving an order through its lifecycle
type TransitionOrderRequest struct {
	Status string `json:"status" binding:"required" example:"DELIVERED"`
}

// AssignCourierRequest represents a courier assignment request
// @Description Request body for assigning a courier to an order
type AssignCourierRequest struct {
	CourierID string `json:"courier_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
}

// OrderResponse represents an order with its financial snapshot in API responses
// @Description Order financial snapshot response
type OrderResponse struct {
	ID          string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID    string  `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	OrderNumber string  `json:"order_number" example:"ORD-202608-00001"`
	StoreID     string  `json:"store_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	CustomerID  string  `json:"customer_id" example:"550e8400-e29b-41d4-a716-446655440003"`
	CourierID   *string `json:"courier_id,omitempty"`
	Status      string  `json:"status" example:"PENDING"`

	SubtotalExVAT  float64 `json:"subtotal_ex_vat" example:"43.48"`
	SubtotalIncVAT float64 `json:"subtotal_inc_vat" example:"50.00"`
	VATOnProducts  float64 `json:"vat_on_products" example:"6.52"`

	DeliveryFee      float64 `json:"delivery_fee" example:"10.00"`
	DeliveryFeeExVAT float64 `json:"delivery_fee_ex_vat" example:"8.70"`
	VATOnDelivery    float64 `json:"vat_on_delivery" example:"1.30"`

	CommissionExVAT float64 `json:"commission_ex_vat" example:"4.35"`
	CommissionVAT   float64 `json:"commission_vat" example:"0.65"`
	CommissionTotal float64 `json:"commission_total" example:"5.00"`
	MerchantPayout  float64 `json:"merchant_payout" example:"45.00"`

	OrderTotal float64 `json:"order_total" example:"60.00"`

	VATPercent        float64 `json:"vat_percent" example:"15"`
	CommissionPercent float64 `json:"commission_percent" example:"10"`

	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version" example:"1"`
}

// OrderItemDetailResponse represents a per-line financial snapshot in API responses
// @Description Order line financial snapshot response
type OrderItemDetailResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrderID   string `json:"order_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	ProductID string `json:"product_id" example:"SKU-1001"`
	Name      string `json:"name" example:"Chicken Shawarma"`
	Quantity  int64  `json:"quantity" example:"2"`

	UnitPriceIncVAT float64 `json:"unit_price_inc_vat" example:"25.00"`
	UnitPriceExVAT  float64 `json:"unit_price_ex_vat" example:"21.74"`
	SubtotalExVAT   float64 `json:"subtotal_ex_vat" example:"43.48"`
	VATAmount       float64 `json:"vat_amount" example:"6.52"`
	LineTotal       float64 `json:"line_total" example:"50.00"`
	CommissionExVAT float64 `json:"commission_ex_vat" example:"4.35"`
	CommissionVAT   float64 `json:"commission_vat" example:"0.65"`
	CommissionTotal float64 `json:"commission_total" example:"5.00"`
	MerchantPayout  float64 `json:"merchant_payout" example:"45.00"`

	VATPercent        float64 `json:"vat_percent" example:"15"`
	CommissionPercent float64 `json:"commission_percent" example:"10"`

	RefundedAmount float64    `json:"refunded_amount" example:"0"`
	IsRefunded     bool       `json:"is_refunded" example:"false"`
	RefundedAt     *time.Time `json:"refunded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version" example:"1"`
}

// CreateOrderResponse represents the result of a checkout
// @Description Created order with line snapshots and capture journal entry reference
type CreateOrderResponse struct {
	Order          OrderResponse             `json:"order"`
	Items          []OrderItemDetailResponse `json:"items"`
	JournalEntryID string                    `json:"journal_entry_id" example:"550e8400-e29b-41d4-a716-446655440004"`
}

// OrderFinancialsResponse represents the complete financial picture of one order
// @Description Order breakdown with lines, refunds and journal entries
type OrderFinancialsResponse struct {
	Order   OrderResponse             `json:"order"`
	Items   []OrderItemDetailResponse `json:"items"`
	Refunds []RefundResponse          `json:"refunds"`
	Entries []JournalEntryResponse    `json:"entries"`
}

// OrderListFilter represents order list query parameters
type OrderListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ===================== Converters =====================

func toOrderResponse(o *ordering.Order) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID.String(),
		TenantID:          o.TenantID.String(),
		OrderNumber:       o.OrderNumber,
		StoreID:           o.StoreID.String(),
		CustomerID:        o.CustomerID.String(),
		Status:            o.Status.String(),
		SubtotalExVAT:     o.SubtotalExVAT.InexactFloat64(),
		SubtotalIncVAT:    o.SubtotalIncVAT.InexactFloat64(),
		VATOnProducts:     o.VATOnProducts.InexactFloat64(),
		DeliveryFee:       o.DeliveryFee.InexactFloat64(),
		DeliveryFeeExVAT:  o.DeliveryFeeExVAT.InexactFloat64(),
		VATOnDelivery:     o.VATOnDelivery.InexactFloat64(),
		CommissionExVAT:   o.CommissionExVAT.InexactFloat64(),
		CommissionVAT:     o.CommissionVAT.InexactFloat64(),
		CommissionTotal:   o.CommissionTotal.InexactFloat64(),
		MerchantPayout:    o.MerchantPayout.InexactFloat64(),
		OrderTotal:        o.OrderTotal.InexactFloat64(),
		VATPercent:        o.VATPercent.InexactFloat64(),
		CommissionPercent: o.CommissionPercent.InexactFloat64(),
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Version:           o.Version,
	}
	if o.CourierID != nil {
		courierID := o.CourierID.String()
		resp.CourierID = &courierID
	}
	return resp
}

func toOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = toOrderResponse(&orders[i])
	}
	return responses
}

func toOrderItemDetailResponse(d *ordering.OrderItemDetail) OrderItemDetailResponse {
	return OrderItemDetailResponse{
		ID:                d.ID.String(),
		OrderID:           d.OrderID.String(),
		ProductID:         d.ProductID,
		Name:              d.Name,
		Quantity:          d.Quantity,
		UnitPriceIncVAT:   d.UnitPriceIncVAT.InexactFloat64(),
		UnitPriceExVAT:    d.UnitPriceExVAT.InexactFloat64(),
		SubtotalExVAT:     d.SubtotalExVAT.InexactFloat64(),
		VATAmount:         d.VATAmount.InexactFloat64(),
		LineTotal:         d.LineTotal.InexactFloat64(),
		CommissionExVAT:   d.CommissionExVAT.InexactFloat64(),
		CommissionVAT:     d.CommissionVAT.InexactFloat64(),
		CommissionTotal:   d.CommissionTotal.InexactFloat64(),
		MerchantPayout:    d.MerchantPayout.InexactFloat64(),
		VATPercent:        d.VATPercent.InexactFloat64(),
		CommissionPercent: d.CommissionPercent.InexactFloat64(),
		RefundedAmount:    d.RefundedAmount.InexactFloat64(),
		IsRefunded:        d.IsRefunded,
		RefundedAt:        d.RefundedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Version:           d.Version,
	}
}

func toOrderItemDetailResponses(details []ordering.OrderItemDetail) []OrderItemDetailResponse {
	responses := make([]OrderItemDetailResponse, len(details))
	for i := range details {
		responses[i] = toOrderItemDetailResponse(&details[i])
	}
	return responses
}

// ===================== Order Handlers =====================

// CreateOrder godoc
// @Summary      Create order
// @Description  Decompose a cart into its financial snapshot and create the order with its capture journal entry
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreateOrderRequest true "Checkout request"
// @Success      201 {object} dto.Response{data=CreateOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	lines := make([]ordering.CartLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = ordering.CartLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: toDecimal(line.UnitPrice),
			Quantity:  line.Quantity,
		}
	}

	result, err := h.checkoutService.CreateOrder(c.Request.Context(), ledgerapp.CreateOrderRequest{
		TenantID:    tenantID,
		StoreID:     storeID,
		CustomerID:  customerID,
		Lines:       lines,
		DeliveryFee: toDecimal(req.DeliveryFee),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, CreateOrderResponse{
		Order:          toOrderResponse(result.Order),
		Items:          toOrderItemDetailResponses(result.Items),
		JournalEntryID: result.JournalEntryID.String(),
	})
}

// ListOrders godoc
// @Summary      List orders
// @Description  Retrieve a paginated list of orders for the tenant
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
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

	page, err := h.accountingService.ListOrders(c.Request.Context(), tenantID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetOrderBreakdown godoc
// @Summary      Get order breakdown
// @Description  Retrieve the complete financial picture of an order: snapshot, lines, refunds and journal entries
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=OrderFinancialsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrderBreakdown(c *gin.Context) {
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

	financials, err := h.accountingService.OrderBreakdown(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, OrderFinancialsResponse{
		Order:   toOrderResponse(financials.Order),
		Items:   toOrderItemDetailResponses(financials.Items),
		Refunds: toRefundResponses(financials.Refunds),
		Entries: toJournalEntryResponses(financials.Entries),
	})
}

// TransitionOrder godoc
// @Summary      Transition order status
// @Description  Move an order through its lifecycle; delivery makes the order count toward settlement dues
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body TransitionOrderRequest true "Target status"
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/status [post]
func (h *OrderHandler) TransitionOrder(c *gin.Context) {
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

	var req TransitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.checkoutService.TransitionOrder(c.Request.Context(), tenantID, orderID, ordering.OrderStatus(req.Status))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

// AssignCourier godoc
// @Summary      Assign courier
// @Description  Attach the courier who will deliver the order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body AssignCourierRequest true "Courier assignment"
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/courier [post]
func (h *OrderHandler) AssignCourier(c *gin.Context) {
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

	var req AssignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	courierID, err := uuid.Parse(req.CourierID)
	if err != nil {
		h.BadRequest(c, "Invalid courier ID format")
		return
	}

	order, err := h.checkoutService.AssignCourier(c.Request.Context(), tenantID, orderID, courierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}
