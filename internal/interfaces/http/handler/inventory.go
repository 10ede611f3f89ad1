package handler

import (
	inventoryapp "github.com/erp/ledger/internal/application/inventory"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles inventory items and the stock ledger
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService, metrics *telemetry.LedgerMetrics) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler:      BaseHandler{metrics: metrics},
		inventoryService: inventoryService,
	}
}

// CreateItem godoc
// @Summary      Create an inventory item
// @Description  Registers an item with its opening stock. The code (ITM####) is assigned by the server.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateItemRequest true "Item"
// @Success      201 {object} dto.Response{data=inventoryapp.ItemResponse}
// @Failure      400 {object} dto.Response
// @Router       /inventory/items [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	item, err := h.inventoryService.CreateItem(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem godoc
// @Summary      Get an inventory item
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.ItemResponse}
// @Failure      404 {object} dto.Response
// @Router       /inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := h.pathID(c, "item")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetItem(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems godoc
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        category query string false "Category"
// @Param        below_reorder query bool false "Only items at or below their reorder level"
// @Param        include_inactive query bool false "Include deactivated items"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventoryapp.ItemResponse}
// @Router       /inventory/items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var filter inventoryapp.ItemListFilter
	if !bindQuery(c, &filter) {
		return
	}
	items, total, err := h.inventoryService.ListItems(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

// DeactivateItem godoc
// @Summary      Deactivate an inventory item
// @Description  A deactivated item keeps its history but accepts no further movements.
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.ItemResponse}
// @Router       /inventory/items/{id}/deactivate [post]
func (h *InventoryHandler) DeactivateItem(c *gin.Context) {
	id, ok := h.pathID(c, "item")
	if !ok {
		return
	}
	item, err := h.inventoryService.DeactivateItem(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RecordMovement godoc
// @Summary      Record a stock movement
// @Description  RECEIPT and RETURN add, ISSUE subtracts, ADJUSTMENT sets the counted quantity, TRANSFER only relocates.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retries"
// @Param        request body inventoryapp.RecordMovementRequest true "Movement"
// @Success      201 {object} dto.Response{data=inventoryapp.StockMovementResponse}
// @Failure      400 {object} dto.Response "INSUFFICIENT_STOCK and other rejections"
// @Router       /inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req inventoryapp.RecordMovementRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	movement, err := h.inventoryService.RecordStockMovement(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// GetMovement godoc
// @Summary      Get a stock movement
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Movement ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.StockMovementResponse}
// @Router       /inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *gin.Context) {
	id, ok := h.pathID(c, "movement")
	if !ok {
		return
	}
	movement, err := h.inventoryService.GetStockMovement(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movement)
}

// ListMovements godoc
// @Summary      List stock movements
// @Tags         inventory
// @Produce      json
// @Param        item_id query string false "Item ID" format(uuid)
// @Param        movement_type query string false "RECEIPT, ISSUE, TRANSFER, ADJUSTMENT or RETURN"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockMovementResponse}
// @Router       /inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter inventoryapp.MovementListFilter
	if !bindQuery(c, &filter) {
		return
	}
	itemID, ok := h.queryID(c, "item_id")
	if !ok {
		return
	}
	filter.ItemID = itemID
	h.listMovements(c, filter)
}

// ListItemMovements lists the movements of the item in the path
func (h *InventoryHandler) ListItemMovements(c *gin.Context) {
	id, ok := h.pathID(c, "item")
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.ItemID = &id
	h.listMovements(c, filter)
}

func (h *InventoryHandler) listMovements(c *gin.Context, filter inventoryapp.MovementListFilter) {
	movements, total, err := h.inventoryService.ListStockMovements(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, movements, total, p, size)
}
