package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/application/service"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pdv-api/internal/presentation/http/middleware"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SaleHandler handles direct sales and the sale ledger
type SaleHandler struct {
	saleService       *service.SaleService
	settlementService *service.SettlementService
	location          *time.Location
}

// NewSaleHandler creates a new sale handler. Dates without a zone are read
// in loc.
func NewSaleHandler(saleService *service.SaleService, settlementService *service.SettlementService, loc *time.Location) *SaleHandler {
	if loc == nil {
		loc = time.Local
	}
	return &SaleHandler{
		saleService:       saleService,
		settlementService: settlementService,
		location:          loc,
	}
}

// CreateDirect handles settling a walk-up cart
func (h *SaleHandler) CreateDirect(c *gin.Context) {
	var req request.DirectSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	method, err := enum.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		response.Error(c, apperror.NewInvalidOperationError(err.Error()))
		return
	}

	items := make([]service.DirectSaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.DirectSaleItemInput{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}

	sale, err := h.settlementService.SettleDirectSale(c.Request.Context(), &service.DirectSaleInput{
		Key:           c.GetString(middleware.IdempotencyKeyContext),
		KeyActor:      c.GetString(middleware.IdempotencyActorContext),
		Items:         items,
		PaymentMethod: method,
		ActorID:       GetActorID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// List handles listing the sale ledger, newest first
func (h *SaleHandler) List(c *gin.Context) {
	var req request.SaleFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter, err := parseWindow(req.From, req.To, h.location)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.saleService.ListSales(c.Request.Context(), filter, pagination.Params{
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Sales retrieved successfully", page)
}

// Get handles getting a sale by ID
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Export handles downloading the ledger as a spreadsheet
func (h *SaleHandler) Export(c *gin.Context) {
	var req request.SaleFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter, err := parseWindow(req.From, req.To, h.location)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.saleService.ExportSales(c.Request.Context(), filter, h.location)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().In(h.location).Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
