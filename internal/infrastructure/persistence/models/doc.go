// Package models holds the GORM table mappings for the ledger. Domain types
// carry no ORM tags; each model converts to and from its domain type.
//
//   - base.go: shared id, timestamp, version and tenant columns
//   - inventory.go: inventory_items, stock_movements
//   - finance.go: invoices, bills, payments, petty cash, expenses
//   - code_sequence.go: per-tenant document number counters
package models
