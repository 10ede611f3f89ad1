package csvimport

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Row error codes
const (
	CodeRequired    = "REQUIRED"
	CodeInvalidType = "INVALID_TYPE"
	CodeTooLong     = "TOO_LONG"
	CodeOutOfRange  = "OUT_OF_RANGE"
	CodeNotAllowed  = "NOT_ALLOWED"
	CodeDuplicate   = "DUPLICATE_IN_FILE"
	CodeRejected    = "REJECTED"
)

// DefaultMaxErrors caps how many row errors a Validator keeps
const DefaultMaxErrors = 100

// RowError locates one problem in the file
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column %s: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

type valueKind int

const (
	kindText valueKind = iota
	kindDecimal
	kindUUID
	kindDate
)

// Rule constrains one column
type Rule struct {
	column   string
	kind     valueKind
	required bool
	maxLen   int
	min      *decimal.Decimal
	positive bool
	allowed  []string
	unique   bool
}

// Column starts a rule for a text column
func Column(name string) *Rule {
	return &Rule{column: name}
}

// Required rejects empty values
func (r *Rule) Required() *Rule { r.required = true; return r }

// Decimal requires a decimal number
func (r *Rule) Decimal() *Rule { r.kind = kindDecimal; return r }

// UUID requires a UUID
func (r *Rule) UUID() *Rule { r.kind = kindUUID; return r }

// Date requires a YYYY-MM-DD date
func (r *Rule) Date() *Rule { r.kind = kindDate; return r }

// MaxLength bounds the value length in characters
func (r *Rule) MaxLength(n int) *Rule { r.maxLen = n; return r }

// NonNegative requires a decimal >= 0
func (r *Rule) NonNegative() *Rule {
	r.kind = kindDecimal
	r.min = &decimal.Zero
	return r
}

// Positive requires a decimal > 0
func (r *Rule) Positive() *Rule {
	r.kind = kindDecimal
	r.positive = true
	return r
}

// OneOf restricts the value to a fixed set, compared case-insensitively
func (r *Rule) OneOf(values ...string) *Rule { r.allowed = values; return r }

// Unique rejects a value already seen earlier in the file
func (r *Rule) Unique() *Rule { r.unique = true; return r }

// Validator applies rules row by row and collects errors up to a cap
type Validator struct {
	rules     []*Rule
	seen      map[string]map[string]int
	errors    []RowError
	maxErrors int
	total     int
}

// NewValidator creates a validator; maxErrors <= 0 uses DefaultMaxErrors
func NewValidator(maxErrors int, rules ...*Rule) *Validator {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Validator{rules: rules, seen: make(map[string]map[string]int), maxErrors: maxErrors}
}

// Add records an error found outside the rules, such as a rejected write
func (v *Validator) Add(e RowError) {
	v.total++
	if len(v.errors) < v.maxErrors {
		v.errors = append(v.errors, e)
	}
}

// Validate checks row and reports whether it is clean
func (v *Validator) Validate(row Row) bool {
	before := v.total
	for _, rule := range v.rules {
		value := row.Get(rule.column)
		if value == "" {
			if rule.required {
				v.Add(RowError{Line: row.Line, Column: rule.column, Code: CodeRequired, Message: "value is required"})
			}
			continue
		}
		if rule.maxLen > 0 && len([]rune(value)) > rule.maxLen {
			v.Add(RowError{Line: row.Line, Column: rule.column, Code: CodeTooLong,
				Message: fmt.Sprintf("must be at most %d characters", rule.maxLen), Value: value})
			continue
		}
		if !v.checkKind(row.Line, rule, value) {
			continue
		}
		if len(rule.allowed) > 0 && !slices.Contains(rule.allowed, strings.ToUpper(value)) {
			v.Add(RowError{Line: row.Line, Column: rule.column, Code: CodeNotAllowed,
				Message: "must be one of " + strings.Join(rule.allowed, ", "), Value: value})
			continue
		}
		if rule.unique {
			key := strings.ToLower(value)
			if v.seen[rule.column] == nil {
				v.seen[rule.column] = make(map[string]int)
			}
			if first, dup := v.seen[rule.column][key]; dup {
				v.Add(RowError{Line: row.Line, Column: rule.column, Code: CodeDuplicate,
					Message: fmt.Sprintf("duplicate of line %d", first), Value: value})
				continue
			}
			v.seen[rule.column][key] = row.Line
		}
	}
	return v.total == before
}

func (v *Validator) checkKind(line int, rule *Rule, value string) bool {
	switch rule.kind {
	case kindDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			v.Add(RowError{Line: line, Column: rule.column, Code: CodeInvalidType, Message: "must be a decimal number", Value: value})
			return false
		}
		if rule.positive && !d.IsPositive() {
			v.Add(RowError{Line: line, Column: rule.column, Code: CodeOutOfRange, Message: "must be greater than zero", Value: value})
			return false
		}
		if rule.min != nil && d.LessThan(*rule.min) {
			v.Add(RowError{Line: line, Column: rule.column, Code: CodeOutOfRange,
				Message: "must be at least " + rule.min.String(), Value: value})
			return false
		}
	case kindUUID:
		if _, err := uuid.Parse(value); err != nil {
			v.Add(RowError{Line: line, Column: rule.column, Code: CodeInvalidType, Message: "must be a UUID", Value: value})
			return false
		}
	case kindDate:
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			v.Add(RowError{Line: line, Column: rule.column, Code: CodeInvalidType, Message: "must be a YYYY-MM-DD date", Value: value})
			return false
		}
	}
	return true
}

// Errors returns the collected errors, at most maxErrors of them
func (v *Validator) Errors() []RowError {
	return v.errors
}

// Total counts every error, including those past the cap
func (v *Validator) Total() int {
	return v.total
}

// Truncated reports whether errors were dropped by the cap
func (v *Validator) Truncated() bool {
	return v.total > len(v.errors)
}
