package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(line int, kv ...string) Row {
	r := Row{Line: line, Values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Values[kv[i]] = kv[i+1]
	}
	return r
}

func movementRules() []*Rule {
	return []*Rule{
		Column("item_id").Required().UUID(),
		Column("movement_type").Required().OneOf("RECEIPT", "ISSUE", "TRANSFER", "ADJUSTMENT", "RETURN"),
		Column("quantity").Required().Positive(),
		Column("movement_date").Date(),
		Column("reference").MaxLength(5).Unique(),
	}
}

func TestValidator_Validate(t *testing.T) {
	const itemID = "0b7d3f4e-57a4-4b55-9d1c-2f7f0d3a9c11"

	tests := []struct {
		name   string
		row    Row
		column string
		code   string
	}{
		{"missing required", row(2, "movement_type", "ISSUE", "quantity", "1"), "item_id", CodeRequired},
		{"bad uuid", row(2, "item_id", "42", "movement_type", "ISSUE", "quantity", "1"), "item_id", CodeInvalidType},
		{"unknown type", row(2, "item_id", itemID, "movement_type", "SCRAP", "quantity", "1"), "movement_type", CodeNotAllowed},
		{"zero quantity", row(2, "item_id", itemID, "movement_type", "ISSUE", "quantity", "0"), "quantity", CodeOutOfRange},
		{"not a number", row(2, "item_id", itemID, "movement_type", "ISSUE", "quantity", "ten"), "quantity", CodeInvalidType},
		{"bad date", row(2, "item_id", itemID, "movement_type", "ISSUE", "quantity", "1", "movement_date", "03/04/2026"), "movement_date", CodeInvalidType},
		{"too long", row(2, "item_id", itemID, "movement_type", "ISSUE", "quantity", "1", "reference", "GRN-000123"), "reference", CodeTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(0, movementRules()...)
			assert.False(t, v.Validate(tt.row))
			require.Len(t, v.Errors(), 1)
			assert.Equal(t, tt.column, v.Errors()[0].Column)
			assert.Equal(t, tt.code, v.Errors()[0].Code)
			assert.Equal(t, 2, v.Errors()[0].Line)
		})
	}

	t.Run("clean row, case-insensitive type", func(t *testing.T) {
		v := NewValidator(0, movementRules()...)
		assert.True(t, v.Validate(row(2, "item_id", itemID, "movement_type", "issue", "quantity", "2.5", "movement_date", "2026-03-04")))
		assert.Empty(t, v.Errors())
	})

	t.Run("duplicate within file", func(t *testing.T) {
		v := NewValidator(0, movementRules()...)
		assert.True(t, v.Validate(row(2, "item_id", itemID, "movement_type", "RECEIPT", "quantity", "1", "reference", "GRN1")))
		assert.False(t, v.Validate(row(5, "item_id", itemID, "movement_type", "RECEIPT", "quantity", "1", "reference", "grn1")))
		require.Len(t, v.Errors(), 1)
		assert.Equal(t, CodeDuplicate, v.Errors()[0].Code)
		assert.Equal(t, "duplicate of line 2", v.Errors()[0].Message)
	})
}

func TestValidator_Cap(t *testing.T) {
	v := NewValidator(2, Column("name").Required(), Column("opening_stock").NonNegative())
	v.Validate(row(2, "opening_stock", "-1"))
	v.Validate(row(3))
	v.Add(RowError{Line: 4, Code: CodeRejected, Message: "insufficient stock"})

	assert.Len(t, v.Errors(), 2)
	assert.Equal(t, 4, v.Total())
	assert.True(t, v.Truncated())
	assert.Equal(t, "line 2, column name: value is required", v.Errors()[0].Error())
	assert.Equal(t, "line 4: insufficient stock", RowError{Line: 4, Message: "insufficient stock"}.Error())
}
