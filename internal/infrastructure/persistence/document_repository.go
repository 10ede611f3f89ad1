package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/erp/ledger/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	entityInvoice = "invoice"
	entityBill    = "bill"
)

// documentQuery applies the filters shared by invoice and bill listings.
// partyColumn is customer_name or supplier_name.
func documentQuery(query *gorm.DB, filter finance.DocumentFilter, partyColumn string) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR "+partyColumn+" LIKE ?", like, like)
	}
	return applyDateRange(query, "issue_date", filter.DateRange)
}

func settlementUpdates(s finance.Settlement) map[string]any {
	return map[string]any{
		"total_amount": s.TotalAmount,
		"amount_paid":  s.AmountPaid,
		"balance_due":  s.BalanceDue,
		"status":       string(s.Status),
		"paid_at":      s.PaidAt,
	}
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds the invoice and locks its row
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *GormInvoiceRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := findForTenant(ctx, r.db, tenantID, id, lock, &model, entityInvoice); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.DocumentFilter) ([]finance.Invoice, int64, error) {
	query := documentQuery(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(tenant.Scope(tenantID)),
		filter, "customer_name",
	)
	var rows []models.InvoiceModel
	total, err := countAndFind(query, filter.Filter, InvoiceSortFields, "issue_date", &rows, entityInvoice)
	if err != nil {
		return nil, 0, err
	}
	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *finance.Invoice) error {
	return create(ctx, r.db, models.InvoiceModelFromDomain(invoice), entityInvoice)
}

// Save persists settlement and lifecycle columns under optimistic locking
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	updates := settlementUpdates(invoice.Settlement)
	updates["customer_name"] = invoice.CustomerName
	updates["due_date"] = invoice.DueDate
	updates["notes"] = invoice.Notes
	updates["cancel_reason"] = invoice.CancelReason
	updates["cancelled_at"] = invoice.CancelledAt
	updates["updated_at"] = invoice.UpdatedAt
	return saveVersioned(ctx, r.db, &models.InvoiceModel{}, invoice.TenantAggregateRoot, updates, entityInvoice)
}

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByIDForTenant finds a bill by ID within a tenant
func (r *GormBillRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Bill, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds the bill and locks its row
func (r *GormBillRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Bill, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *GormBillRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*finance.Bill, error) {
	var model models.BillModel
	if err := findForTenant(ctx, r.db, tenantID, id, lock, &model, entityBill); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists bills for a tenant
func (r *GormBillRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.DocumentFilter) ([]finance.Bill, int64, error) {
	query := documentQuery(
		r.db.WithContext(ctx).Model(&models.BillModel{}).Scopes(tenant.Scope(tenantID)),
		filter, "supplier_name",
	)
	var rows []models.BillModel
	total, err := countAndFind(query, filter.Filter, BillSortFields, "issue_date", &rows, entityBill)
	if err != nil {
		return nil, 0, err
	}
	bills := make([]finance.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, total, nil
}

// Create inserts a new bill
func (r *GormBillRepository) Create(ctx context.Context, bill *finance.Bill) error {
	return create(ctx, r.db, models.BillModelFromDomain(bill), entityBill)
}

// Save persists settlement and lifecycle columns under optimistic locking
func (r *GormBillRepository) Save(ctx context.Context, bill *finance.Bill) error {
	updates := settlementUpdates(bill.Settlement)
	updates["supplier_name"] = bill.SupplierName
	updates["due_date"] = bill.DueDate
	updates["notes"] = bill.Notes
	updates["cancel_reason"] = bill.CancelReason
	updates["cancelled_at"] = bill.CancelledAt
	updates["updated_at"] = bill.UpdatedAt
	return saveVersioned(ctx, r.db, &models.BillModel{}, bill.TenantAggregateRoot, updates, entityBill)
}

var (
	_ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
	_ finance.BillRepository    = (*GormBillRepository)(nil)
)
