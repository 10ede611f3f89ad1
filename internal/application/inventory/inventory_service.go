package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService records stock movements and manages inventory items
type InventoryService struct {
	itemRepo       inventory.InventoryItemRepository
	movementRepo   inventory.StockMovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.InventoryItemRepository,
	movementRepo inventory.StockMovementRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes events collected during a committed transaction.
// Publishing failures are logged and never undo the commit.
func (s *InventoryService) publishDomainEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish inventory events", zap.Error(err), zap.Int("count", len(events)))
	}
}

// CreateItem creates an inventory item with its opening stock
func (s *InventoryService) CreateItem(ctx context.Context, tenantID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "create_item")
	defer span.End()

	var created *inventory.InventoryItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, inventory.ItemCode)
		if err != nil {
			return shared.WrapPersistenceError("next item code", err)
		}
		item, err := inventory.NewInventoryItem(tenantID, code, req.Name, req.Category, req.Unit, req.OpeningStock, req.ReorderLevel)
		if err != nil {
			return err
		}
		item.SetCreatedBy(req.CreatedBy)
		if err := repos.ItemRepo().Create(ctx, item); err != nil {
			return shared.WrapPersistenceError("create item", err)
		}
		created = item
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrEntityCode, created.Code)
	resp := ToItemResponse(created)
	return &resp, nil
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, shared.WrapPersistenceError("get item", err)
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// ListItems lists inventory items with filtering and pagination
func (s *InventoryService) ListItems(ctx context.Context, tenantID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	items, total, err := s.itemRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list items", err)
	}
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses, total, nil
}

// DeactivateItem soft-deletes an item. Later movements against it fail with NotFound.
func (s *InventoryService) DeactivateItem(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	var deactivated *inventory.InventoryItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, tenantID, itemID)
		if err != nil {
			return shared.WrapPersistenceError("lock item", err)
		}
		if !item.IsActive {
			deactivated = item
			return nil
		}
		item.Deactivate()
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return shared.WrapPersistenceError("save item", err)
		}
		deactivated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(deactivated)
	return &resp, nil
}

// RecordStockMovement appends one stock movement and updates the item's stock
// in a single transaction holding the item's row lock.
func (s *InventoryService) RecordStockMovement(ctx context.Context, tenantID uuid.UUID, req RecordMovementRequest) (*StockMovementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "record_stock_movement",
		telemetry.WithAttribute(telemetry.SpanAttrMovementType, req.MovementType),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, req.Quantity.String()),
	)
	defer span.End()

	movementType := inventory.MovementType(strings.ToUpper(strings.TrimSpace(req.MovementType)))
	details := inventory.MovementDetails{
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		Reference:    req.Reference,
		Notes:        req.Notes,
		CreatedBy:    req.CreatedBy,
	}
	if req.MovementDate != nil {
		details.MovementDate = *req.MovementDate
	} else {
		details.MovementDate = time.Now()
	}

	var (
		movement *inventory.StockMovement
		events   []shared.DomainEvent
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, tenantID, req.ItemID)
		if err != nil {
			return shared.WrapPersistenceError("lock item", err)
		}
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, inventory.MovementCode)
		if err != nil {
			return shared.WrapPersistenceError("next movement code", err)
		}
		m, err := item.RecordMovement(code, movementType, req.Quantity, details)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, m); err != nil {
			return shared.WrapPersistenceError("create stock movement", err)
		}
		events = item.GetDomainEvents()
		item.ClearDomainEvents()
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return shared.WrapPersistenceError("save item", err)
		}
		movement = m
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Debug("stock movement rejected",
			zap.String("tenant_id", tenantID.String()),
			zap.String("item_id", req.ItemID.String()),
			zap.String("movement_type", string(movementType)),
			zap.Error(err),
		)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntityCode, movement.Code,
		telemetry.SpanAttrBalanceAfter, movement.BalanceAfter.String(),
	)
	s.publishDomainEvents(ctx, events)

	resp := ToStockMovementResponse(movement)
	return &resp, nil
}

// GetStockMovement retrieves a single movement
func (s *InventoryService) GetStockMovement(ctx context.Context, tenantID, movementID uuid.UUID) (*StockMovementResponse, error) {
	m, err := s.movementRepo.FindByIDForTenant(ctx, tenantID, movementID)
	if err != nil {
		return nil, shared.WrapPersistenceError("get stock movement", err)
	}
	resp := ToStockMovementResponse(m)
	return &resp, nil
}

// ListStockMovements lists movements for the tenant or a single item
func (s *InventoryService) ListStockMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]StockMovementResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	movements, total, err := s.movementRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list stock movements", err)
	}
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses, total, nil
}
