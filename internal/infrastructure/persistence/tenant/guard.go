// Package tenant enforces tenant isolation at the GORM layer.
//
// Repositories scope every statement explicitly with Scope. The Guard is a
// second line: it rejects reads, updates and deletes on tenant-owned tables
// that carry no tenant condition, and inserts whose tenant id is empty.
package tenant

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Column is the tenant column of every tenant-owned table
const Column = "tenant_id"

var (
	// ErrUnscopedStatement is returned for a statement on a tenant-owned table without a tenant condition
	ErrUnscopedStatement = errors.New("statement on tenant-owned table has no tenant condition")
	// ErrMissingTenant is returned when inserting a tenant-owned row with an empty tenant id
	ErrMissingTenant = errors.New("tenant id is required")
)

// Scope restricts a query to one tenant
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(Column+" = ?", tenantID)
	}
}

// Guard holds the callbacks that enforce tenant scoping
type Guard struct{}

// Register installs the guard callbacks on db
func (g Guard) Register(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("tenant:guard_query", g.requireCondition); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tenant:guard_update", g.requireCondition); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("tenant:guard_delete", g.requireCondition); err != nil {
		return err
	}
	return cb.Create().Before("gorm:create").Register("tenant:guard_create", g.requireValue)
}

func tenantField(s *schema.Schema) *schema.Field {
	if s == nil {
		return nil
	}
	return s.LookUpField(Column)
}

func (g Guard) requireCondition(tx *gorm.DB) {
	stmt := tx.Statement
	if tx.Error != nil || stmt.Unscoped || tenantField(stmt.Schema) == nil {
		return
	}
	if whereClause, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if mentionsTenant(expr) {
					return
				}
			}
		}
	}
	_ = tx.AddError(fmt.Errorf("%w: %s", ErrUnscopedStatement, stmt.Table))
}

func mentionsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Expr:
		return strings.Contains(e.SQL, Column)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, Column)
	case clause.Eq:
		col, ok := e.Column.(clause.Column)
		return ok && col.Name == Column
	case clause.IN:
		col, ok := e.Column.(clause.Column)
		return ok && col.Name == Column
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if mentionsTenant(cond) {
				return true
			}
		}
	}
	return false
}

func (g Guard) requireValue(tx *gorm.DB) {
	field := tenantField(tx.Statement.Schema)
	if tx.Error != nil || field == nil {
		return
	}
	check := func(v reflect.Value) bool {
		_, zero := field.ValueOf(tx.Statement.Context, reflect.Indirect(v))
		return !zero
	}

	rv := reflect.Indirect(tx.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Struct:
		if !check(rv) {
			_ = tx.AddError(fmt.Errorf("%w: %s", ErrMissingTenant, tx.Statement.Table))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !check(rv.Index(i)) {
				_ = tx.AddError(fmt.Errorf("%w: %s", ErrMissingTenant, tx.Statement.Table))
				return
			}
		}
	}
}
