package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/erp/ledger/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityPayment = "payment"

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForTenant finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Payment, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds the payment and locks its row
func (r *GormPaymentRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Payment, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *GormPaymentRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := findForTenant(ctx, r.db, tenantID, id, lock, &model, entityPayment); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists payments for a tenant
func (r *GormPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.PaymentFilter) ([]finance.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).Scopes(tenant.Scope(tenantID))
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.BillID != nil {
		query = query.Where("bill_id = ?", *filter.BillID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Method != "" {
		query = query.Where("method = ?", string(filter.Method))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR reference LIKE ?", like, like)
	}
	query = applyDateRange(query, "payment_date", filter.DateRange)

	var rows []models.PaymentModel
	total, err := countAndFind(query, filter.Filter, PaymentSortFields, "payment_date", &rows, entityPayment)
	if err != nil {
		return nil, 0, err
	}
	payments := make([]finance.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, total, nil
}

// Create inserts a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	return create(ctx, r.db, models.PaymentModelFromDomain(payment), entityPayment)
}

// Save persists a cancellation. Amount, target and snapshots are never rewritten.
func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return saveVersioned(ctx, r.db, &models.PaymentModel{}, payment.TenantAggregateRoot, map[string]any{
		"status":        string(payment.Status),
		"cancelled_at":  payment.CancelledAt,
		"cancelled_by":  payment.CancelledBy,
		"cancel_reason": payment.CancelReason,
		"updated_at":    payment.UpdatedAt,
	}, entityPayment)
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
