package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/application/service"
	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/sangkips/pdv-api/internal/infrastructure/cache"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pdv-api/pkg/apperror"
)

// TableHandler handles table session HTTP requests
type TableHandler struct {
	tableService      *service.TableService
	settlementService *service.SettlementService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableService *service.TableService, settlementService *service.SettlementService) *TableHandler {
	return &TableHandler{
		tableService:      tableService,
		settlementService: settlementService,
	}
}

// List handles listing all tables from the periodically refreshed snapshot
func (h *TableHandler) List(c *gin.Context) {
	var req request.TableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	view, err := h.tableService.ListTables(c.Request.Context(), req.Fresh)
	if err != nil {
		response.Error(c, err)
		return
	}

	tables := make([]response.TableResponse, 0, len(view.Value))
	for _, t := range view.Value {
		tables = append(tables, response.NewTableResponse(t))
	}
	response.OK(c, "Tables retrieved successfully", response.NewSnapshotResponse(cache.View[[]response.TableResponse]{
		Value:        tables,
		FetchedAt:    view.FetchedAt,
		MaxStaleness: view.MaxStaleness,
	}))
}

// Get handles reading one table directly from the store
func (h *TableHandler) Get(c *gin.Context) {
	id, err := tableID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table retrieved successfully", response.NewTableResponse(*table))
}

// AddItem handles adding one unit of a product to a table
func (h *TableHandler) AddItem(c *gin.Context) {
	id, err := tableID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	table, err := h.tableService.AddItem(c.Request.Context(), id, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", response.NewTableResponse(*table))
}

// RemoveItem handles taking one unit of a product off a table
func (h *TableHandler) RemoveItem(c *gin.Context) {
	id, err := tableID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	table, err := h.tableService.RemoveItem(c.Request.Context(), id, c.Param("product_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", response.NewTableResponse(*table))
}

// Settle handles closing a table into a sale
func (h *TableHandler) Settle(c *gin.Context) {
	id, err := tableID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	method, err := enum.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		response.Error(c, apperror.NewInvalidOperationError(err.Error()))
		return
	}

	sale, err := h.settlementService.SettleTable(c.Request.Context(), &service.SettleTableInput{
		TableID:       id,
		PaymentMethod: method,
		ActorID:       GetActorID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Table settled successfully", sale)
}

// Clear handles freeing a table without recording a sale. It is the
// recovery path after a partial settlement.
func (h *TableHandler) Clear(c *gin.Context) {
	id, err := tableID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	table, err := h.tableService.ClearTable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table cleared", response.NewTableResponse(*table))
}

// SaveOrder handles overwriting a table's status and lines in one write
func (h *TableHandler) SaveOrder(c *gin.Context) {
	id, err := tableID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.SaveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	status, err := enum.ParseTableStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewValidationError([]apperror.FieldError{{Field: "status", Message: err.Error()}}))
		return
	}
	orders := req.Orders
	if orders == nil {
		orders = entity.OrderLines{}
	}

	table, err := h.tableService.SaveOrder(c.Request.Context(), id, status, orders)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table order saved", response.NewTableResponse(*table))
}
