package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// InventoryItemSortFields contains allowed sort fields for inventory items
var InventoryItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"category":      true,
	"current_stock": true,
	"reorder_level": true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"code":          true,
	"movement_type": true,
	"movement_date": true,
	"quantity":      true,
}

// documentSortFields is shared by invoices and bills
var documentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"issue_date":   true,
	"due_date":     true,
	"status":       true,
	"total_amount": true,
	"amount_paid":  true,
	"balance_due":  true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = withFields(documentSortFields, "customer_name")

// BillSortFields contains allowed sort fields for bills
var BillSortFields = withFields(documentSortFields, "supplier_name")

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"code":         true,
	"payment_date": true,
	"amount":       true,
	"method":       true,
	"status":       true,
}

// PettyCashAccountSortFields contains allowed sort fields for petty cash accounts
var PettyCashAccountSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"code":            true,
	"name":            true,
	"custodian":       true,
	"current_balance": true,
}

// PettyCashTransactionSortFields contains allowed sort fields for petty cash transactions
var PettyCashTransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"code":             true,
	"transaction_type": true,
	"transaction_date": true,
	"amount":           true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"category":     true,
	"expense_date": true,
	"amount":       true,
	"status":       true,
}

func withFields(base map[string]bool, extra ...string) map[string]bool {
	out := make(map[string]bool, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for _, f := range extra {
		out[f] = true
	}
	return out
}
