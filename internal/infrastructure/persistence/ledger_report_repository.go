package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/report"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	signedPettyCashAmount = "CASE WHEN direction = 'OUT' THEN -amount ELSE amount END"
	stockEffect           = "balance_after - balance_before"
)

// GormLedgerReportRepository implements LedgerReportRepository with plain
// aggregate queries. Nothing here locks rows.
type GormLedgerReportRepository struct {
	db *gorm.DB
}

// NewGormLedgerReportRepository creates a new GormLedgerReportRepository
func NewGormLedgerReportRepository(db *gorm.DB) *GormLedgerReportRepository {
	return &GormLedgerReportRepository{db: db}
}

type groupRow struct {
	GroupKey string
	Count    int64
	Amount   decimal.Decimal
}

type groupQuery struct {
	table      string
	keyExpr    string
	amountExpr string
	dateColumn string
	where      string
	whereArgs  []any
}

func (r *GormLedgerReportRepository) sumGroups(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter, q groupQuery) ([]report.GroupTotal, error) {
	query := r.db.WithContext(ctx).
		Table(q.table).
		Select(q.keyExpr+" AS group_key, COUNT(*) AS count, COALESCE(SUM("+q.amountExpr+"), 0) AS amount").
		Where("tenant_id = ?", tenantID)
	if q.where != "" {
		query = query.Where(q.where, q.whereArgs...)
	}
	query = applyDateRange(query, q.dateColumn, filter.DateRange)

	var rows []groupRow
	if err := query.Group(q.keyExpr).Order(q.keyExpr).Scan(&rows).Error; err != nil {
		return nil, wrapReportError(q.table, err)
	}
	out := make([]report.GroupTotal, len(rows))
	for i, row := range rows {
		out[i] = report.GroupTotal{Key: row.GroupKey, Count: row.Count, Amount: row.Amount}
	}
	return out, nil
}

// SumPaymentsByStatus groups payments by status
func (r *GormLedgerReportRepository) SumPaymentsByStatus(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.GroupTotal, error) {
	return r.sumGroups(ctx, tenantID, filter, groupQuery{
		table: "payments", keyExpr: "status", amountExpr: "amount", dateColumn: "payment_date",
	})
}

// SumPaymentsByMethod groups active payments by method
func (r *GormLedgerReportRepository) SumPaymentsByMethod(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.GroupTotal, error) {
	return r.sumGroups(ctx, tenantID, filter, groupQuery{
		table: "payments", keyExpr: "method", amountExpr: "amount", dateColumn: "payment_date",
		where: "status = ?", whereArgs: []any{"ACTIVE"},
	})
}

// SumPettyCashByType groups petty cash transactions by type with signed amounts
func (r *GormLedgerReportRepository) SumPettyCashByType(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.GroupTotal, error) {
	q := groupQuery{
		table: "petty_cash_transactions", keyExpr: "transaction_type", amountExpr: signedPettyCashAmount,
		dateColumn: "transaction_date",
	}
	if filter.AccountID != nil {
		q.where, q.whereArgs = "account_id = ?", []any{*filter.AccountID}
	}
	return r.sumGroups(ctx, tenantID, filter, q)
}

// SumExpensesByStatus groups expenses by workflow status
func (r *GormLedgerReportRepository) SumExpensesByStatus(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.GroupTotal, error) {
	return r.sumGroups(ctx, tenantID, filter, groupQuery{
		table: "expenses", keyExpr: "status", amountExpr: "amount", dateColumn: "expense_date",
	})
}

// SumExpensesByCategory groups non-cancelled, non-rejected expenses by category
func (r *GormLedgerReportRepository) SumExpensesByCategory(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.GroupTotal, error) {
	return r.sumGroups(ctx, tenantID, filter, groupQuery{
		table: "expenses", keyExpr: "category", amountExpr: "amount", dateColumn: "expense_date",
		where: "status NOT IN ?", whereArgs: []any{[]string{"CANCELLED", "REJECTED"}},
	})
}

// SumStockMovementsByType reports the net stock effect per movement type
func (r *GormLedgerReportRepository) SumStockMovementsByType(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.GroupTotal, error) {
	return r.sumGroups(ctx, tenantID, filter, groupQuery{
		table: "stock_movements", keyExpr: "movement_type", amountExpr: stockEffect, dateColumn: "movement_date",
	})
}

type documentRow struct {
	Status string
	Count  int64
	Total  decimal.Decimal
	Paid   decimal.Decimal
	Due    decimal.Decimal
}

func (r *GormLedgerReportRepository) sumDocuments(ctx context.Context, table string, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.DocumentStatusTotal, error) {
	query := r.db.WithContext(ctx).
		Table(table).
		Select("status, COUNT(*) AS count, " +
			"COALESCE(SUM(total_amount), 0) AS total, " +
			"COALESCE(SUM(amount_paid), 0) AS paid, " +
			"COALESCE(SUM(balance_due), 0) AS due").
		Where("tenant_id = ?", tenantID)
	query = applyDateRange(query, "issue_date", filter.DateRange)

	var rows []documentRow
	if err := query.Group("status").Order("status").Scan(&rows).Error; err != nil {
		return nil, wrapReportError(table, err)
	}
	out := make([]report.DocumentStatusTotal, len(rows))
	for i, row := range rows {
		out[i] = report.DocumentStatusTotal{Status: row.Status, Count: row.Count, Total: row.Total, Paid: row.Paid, Due: row.Due}
	}
	return out, nil
}

// SumInvoicesByStatus aggregates invoices per status
func (r *GormLedgerReportRepository) SumInvoicesByStatus(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.DocumentStatusTotal, error) {
	return r.sumDocuments(ctx, "invoices", tenantID, filter)
}

// SumBillsByStatus aggregates bills per status
func (r *GormLedgerReportRepository) SumBillsByStatus(ctx context.Context, tenantID uuid.UUID, filter report.SummaryFilter) ([]report.DocumentStatusTotal, error) {
	return r.sumDocuments(ctx, "bills", tenantID, filter)
}

type balanceRow struct {
	ID       uuid.UUID
	Code     string
	Recorded decimal.Decimal
	Expected decimal.Decimal
}

const stockBalanceSQL = `SELECT i.id, i.code, i.current_stock AS recorded,
	i.initial_stock + COALESCE(SUM(m.balance_after - m.balance_before), 0) AS expected
FROM inventory_items i
LEFT JOIN stock_movements m ON m.item_id = i.id AND m.tenant_id = i.tenant_id
WHERE i.tenant_id = ?
GROUP BY i.id, i.code, i.current_stock, i.initial_stock
ORDER BY i.code`

const pettyCashBalanceSQL = `SELECT a.id, a.code, a.current_balance AS recorded,
	a.initial_balance + COALESCE(SUM(CASE WHEN t.direction = 'OUT' THEN -t.amount ELSE t.amount END), 0) AS expected
FROM petty_cash_accounts a
LEFT JOIN petty_cash_transactions t ON t.account_id = a.id AND t.tenant_id = a.tenant_id
WHERE a.tenant_id = ?
GROUP BY a.id, a.code, a.current_balance, a.initial_balance
ORDER BY a.code`

func (r *GormLedgerReportRepository) findBalanceMismatches(ctx context.Context, sql, entityType, field string, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	var rows []balanceRow
	if err := r.db.WithContext(ctx).Raw(sql, tenantID).Scan(&rows).Error; err != nil {
		return nil, wrapReportError(entityType, err)
	}
	mismatches := []report.LedgerMismatch{}
	for _, row := range rows {
		if !row.Recorded.Equal(row.Expected) {
			mismatches = append(mismatches, report.NewLedgerMismatch(entityType, row.ID, row.Code, field, row.Recorded, row.Expected))
		}
	}
	return mismatches, nil
}

// FindStockMismatches compares each item's current stock with its movement ledger
func (r *GormLedgerReportRepository) FindStockMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return r.findBalanceMismatches(ctx, stockBalanceSQL, report.EntityInventoryItem, report.FieldCurrentStock, tenantID)
}

// FindPettyCashMismatches compares each account's balance with its transactions
func (r *GormLedgerReportRepository) FindPettyCashMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return r.findBalanceMismatches(ctx, pettyCashBalanceSQL, report.EntityPettyCashAccount, report.FieldCurrentBalance, tenantID)
}

type settlementRow struct {
	ID          uuid.UUID
	Code        string
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	BalanceDue  decimal.Decimal
	PaidSum     decimal.Decimal
}

func (r *GormLedgerReportRepository) findSettlementMismatches(ctx context.Context, table, fkColumn, entityType string, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	sql := `SELECT d.id, d.code, d.total_amount, d.amount_paid, d.balance_due,
	COALESCE(SUM(p.amount), 0) AS paid_sum
FROM ` + table + ` d
LEFT JOIN payments p ON p.` + fkColumn + ` = d.id AND p.tenant_id = d.tenant_id AND p.status = 'ACTIVE'
WHERE d.tenant_id = ?
GROUP BY d.id, d.code, d.total_amount, d.amount_paid, d.balance_due
ORDER BY d.code`

	var rows []settlementRow
	if err := r.db.WithContext(ctx).Raw(sql, tenantID).Scan(&rows).Error; err != nil {
		return nil, wrapReportError(entityType, err)
	}
	mismatches := []report.LedgerMismatch{}
	for _, row := range rows {
		if !row.AmountPaid.Equal(row.PaidSum) {
			mismatches = append(mismatches, report.NewLedgerMismatch(entityType, row.ID, row.Code, report.FieldAmountPaid, row.AmountPaid, row.PaidSum))
		}
		if expected := row.TotalAmount.Sub(row.AmountPaid); !row.BalanceDue.Equal(expected) {
			mismatches = append(mismatches, report.NewLedgerMismatch(entityType, row.ID, row.Code, report.FieldBalanceDue, row.BalanceDue, expected))
		}
	}
	return mismatches, nil
}

// FindInvoiceMismatches checks invoice settlement columns against active payments
func (r *GormLedgerReportRepository) FindInvoiceMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return r.findSettlementMismatches(ctx, "invoices", "invoice_id", report.EntityInvoice, tenantID)
}

// FindBillMismatches checks bill settlement columns against active payments
func (r *GormLedgerReportRepository) FindBillMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return r.findSettlementMismatches(ctx, "bills", "bill_id", report.EntityBill, tenantID)
}

func wrapReportError(subject string, err error) error {
	return shared.WrapPersistenceError("report "+subject, err)
}

var _ report.LedgerReportRepository = (*GormLedgerReportRepository)(nil)
