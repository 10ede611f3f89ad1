package finance

import (
	"context"
	"sync"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// memTable is an in-memory stand-in for one repository. Rows are stored by value so
// a loaded aggregate is a copy, the way a database load would be.
type memTable[T any, F any] struct {
	mu     *sync.Mutex
	entity string
	rows   map[uuid.UUID]T
	order  []uuid.UUID
	key    func(*T) (id, tenant uuid.UUID)
	// version is nil for append-only tables
	version func(*T) int
	match   func(*T, F) bool
}

func (m *memTable[T, F]) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, shared.NewNotFoundError(m.entity, id)
	}
	if _, tenant := m.key(&row); tenant != tenantID {
		return nil, shared.NewNotFoundError(m.entity, id)
	}
	return &row, nil
}

func (m *memTable[T, F]) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	return m.FindByIDForTenant(ctx, tenantID, id)
}

func (m *memTable[T, F]) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter F) ([]T, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []T
	for _, id := range m.order {
		row := m.rows[id]
		if _, tenant := m.key(&row); tenant != tenantID {
			continue
		}
		if m.match != nil && !m.match(&row, filter) {
			continue
		}
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func (m *memTable[T, F]) Create(_ context.Context, row *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, _ := m.key(row)
	m.rows[id] = *row
	m.order = append(m.order, id)
	return nil
}

func (m *memTable[T, F]) Save(_ context.Context, row *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, _ := m.key(row)
	stored, ok := m.rows[id]
	if !ok {
		return shared.NewNotFoundError(m.entity, id)
	}
	if m.version != nil && m.version(&stored) != m.version(row)-1 {
		return shared.ErrConflict
	}
	m.rows[id] = *row
	return nil
}

func newTable[T any, F any](mu *sync.Mutex, entity string, key func(*T) (uuid.UUID, uuid.UUID), version func(*T) int) *memTable[T, F] {
	return &memTable[T, F]{mu: mu, entity: entity, rows: make(map[uuid.UUID]T), key: key, version: version}
}

type memFinance struct {
	mu           sync.Mutex
	invoices     *memTable[finance.Invoice, finance.DocumentFilter]
	bills        *memTable[finance.Bill, finance.DocumentFilter]
	payments     *memTable[finance.Payment, finance.PaymentFilter]
	accounts     *memTable[finance.PettyCashAccount, finance.PettyCashAccountFilter]
	transactions *memTable[finance.PettyCashTransaction, finance.PettyCashTransactionFilter]
	expenses     *memTable[finance.Expense, finance.ExpenseFilter]
	seq          map[string]int64
}

func newMemFinance() *memFinance {
	m := &memFinance{seq: make(map[string]int64)}
	m.invoices = newTable[finance.Invoice, finance.DocumentFilter](&m.mu, "invoice",
		func(r *finance.Invoice) (uuid.UUID, uuid.UUID) { return r.ID, r.TenantID },
		func(r *finance.Invoice) int { return r.Version })
	m.bills = newTable[finance.Bill, finance.DocumentFilter](&m.mu, "bill",
		func(r *finance.Bill) (uuid.UUID, uuid.UUID) { return r.ID, r.TenantID },
		func(r *finance.Bill) int { return r.Version })
	m.payments = newTable[finance.Payment, finance.PaymentFilter](&m.mu, "payment",
		func(r *finance.Payment) (uuid.UUID, uuid.UUID) { return r.ID, r.TenantID },
		func(r *finance.Payment) int { return r.Version })
	m.payments.match = func(p *finance.Payment, f finance.PaymentFilter) bool {
		if f.InvoiceID != nil && (p.InvoiceID == nil || *p.InvoiceID != *f.InvoiceID) {
			return false
		}
		return f.Status == "" || p.Status == f.Status
	}
	m.accounts = newTable[finance.PettyCashAccount, finance.PettyCashAccountFilter](&m.mu, "petty cash account",
		func(r *finance.PettyCashAccount) (uuid.UUID, uuid.UUID) { return r.ID, r.TenantID },
		func(r *finance.PettyCashAccount) int { return r.Version })
	m.transactions = newTable[finance.PettyCashTransaction, finance.PettyCashTransactionFilter](&m.mu, "petty cash transaction",
		func(r *finance.PettyCashTransaction) (uuid.UUID, uuid.UUID) { return r.ID, r.TenantID }, nil)
	m.transactions.match = func(t *finance.PettyCashTransaction, f finance.PettyCashTransactionFilter) bool {
		return f.AccountID == nil || t.AccountID == *f.AccountID
	}
	m.expenses = newTable[finance.Expense, finance.ExpenseFilter](&m.mu, "expense",
		func(r *finance.Expense) (uuid.UUID, uuid.UUID) { return r.ID, r.TenantID },
		func(r *finance.Expense) int { return r.Version })
	return m
}

func (m *memFinance) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(m)
}

func (m *memFinance) InvoiceRepo() finance.InvoiceRepository      { return m.invoices }
func (m *memFinance) BillRepo() finance.BillRepository            { return m.bills }
func (m *memFinance) PaymentRepo() finance.PaymentRepository      { return m.payments }
func (m *memFinance) ExpenseRepo() finance.ExpenseRepository      { return m.expenses }
func (m *memFinance) CodeSequence() shared.CodeSequenceRepository { return m }
func (m *memFinance) PettyCashAccountRepo() finance.PettyCashAccountRepository {
	return m.accounts
}
func (m *memFinance) PettyCashTransactionRepo() finance.PettyCashTransactionRepository {
	return m.transactions
}

func (m *memFinance) Next(_ context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := tenantID.String() + "/" + prefix
	m.seq[key]++
	return m.seq[key], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type services struct {
	store     *memFinance
	publisher *recordingPublisher
	documents *DocumentService
	payments  *PaymentService
	pettyCash *PettyCashService
	expenses  *ExpenseService
}

func newServices() *services {
	store := newMemFinance()
	pub := &recordingPublisher{}
	s := &services{
		store:     store,
		publisher: pub,
		documents: NewDocumentService(store.invoices, store.bills, store, nil),
		payments:  NewPaymentService(store.payments, store, nil),
		pettyCash: NewPettyCashService(store.accounts, store.transactions, store, nil),
		expenses:  NewExpenseService(store.expenses, store, nil),
	}
	s.documents.SetEventPublisher(pub)
	s.payments.SetEventPublisher(pub)
	s.pettyCash.SetEventPublisher(pub)
	s.expenses.SetEventPublisher(pub)
	return s
}
