package report

import (
	"time"

	"github.com/erp/ledger/internal/domain/report"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryRequest is the query shared by every summary endpoint
type SummaryRequest struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	AccountID *uuid.UUID `form:"-"`
}

func (r SummaryRequest) toDomain() (report.SummaryFilter, error) {
	dr := shared.DateRange{From: r.From, To: r.To}
	if err := dr.Validate(); err != nil {
		return report.SummaryFilter{}, err
	}
	return report.SummaryFilter{DateRange: dr, AccountID: r.AccountID}, nil
}

// Period echoes the window a summary was computed for
type Period struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// GroupedSummary is a set of grouped totals plus their grand total
type GroupedSummary struct {
	Groups      []report.GroupTotal `json:"groups"`
	TotalCount  int64               `json:"total_count"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
}

func newGroupedSummary(rows []report.GroupTotal) GroupedSummary {
	if rows == nil {
		rows = []report.GroupTotal{}
	}
	count, amount := report.SumGroups(rows)
	return GroupedSummary{Groups: rows, TotalCount: count, TotalAmount: amount}
}

// PaymentSummaryResponse holds payment totals by status and by method
type PaymentSummaryResponse struct {
	Period   Period         `json:"period"`
	ByStatus GroupedSummary `json:"by_status"`
	ByMethod GroupedSummary `json:"by_method"`
}

// DocumentSummaryResponse holds invoice or bill totals by status
type DocumentSummaryResponse struct {
	Period     Period                       `json:"period"`
	ByStatus   []report.DocumentStatusTotal `json:"by_status"`
	TotalCount int64                        `json:"total_count"`
	Total      decimal.Decimal              `json:"total"`
	Paid       decimal.Decimal              `json:"paid"`
	Due        decimal.Decimal              `json:"due"`
}

func newDocumentSummary(period Period, rows []report.DocumentStatusTotal) DocumentSummaryResponse {
	if rows == nil {
		rows = []report.DocumentStatusTotal{}
	}
	resp := DocumentSummaryResponse{
		Period:   period,
		ByStatus: rows,
		Total:    decimal.Zero,
		Paid:     decimal.Zero,
		Due:      decimal.Zero,
	}
	for _, r := range rows {
		resp.TotalCount += r.Count
		resp.Total = resp.Total.Add(r.Total)
		resp.Paid = resp.Paid.Add(r.Paid)
		resp.Due = resp.Due.Add(r.Due)
	}
	return resp
}

// PettyCashSummaryResponse holds the net signed amount per transaction type
type PettyCashSummaryResponse struct {
	Period    Period         `json:"period"`
	AccountID *uuid.UUID     `json:"account_id,omitempty"`
	ByType    GroupedSummary `json:"by_type"`
}

// ExpenseSummaryResponse holds expense totals by status and category
type ExpenseSummaryResponse struct {
	Period     Period         `json:"period"`
	ByStatus   GroupedSummary `json:"by_status"`
	ByCategory GroupedSummary `json:"by_category"`
}

// StockMovementSummaryResponse holds the net stock effect per movement type
type StockMovementSummaryResponse struct {
	Period Period         `json:"period"`
	ByType GroupedSummary `json:"by_type"`
}

// VerificationResult is the outcome of a reconciliation run
type VerificationResult struct {
	TenantID   uuid.UUID               `json:"tenant_id"`
	CheckedAt  time.Time               `json:"checked_at"`
	Consistent bool                    `json:"consistent"`
	Mismatches []report.LedgerMismatch `json:"mismatches"`
}
