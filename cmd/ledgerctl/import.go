package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	inventoryapp "github.com/erp/ledger/internal/application/inventory"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errRowsRejected = errors.New("import has rejected rows")

// importResult is printed after every import run
type importResult struct {
	File      string               `json:"file"`
	DryRun    bool                 `json:"dry_run"`
	Rows      int                  `json:"rows"`
	Imported  int                  `json:"imported"`
	Failed    int                  `json:"failed"`
	Errors    []csvimport.RowError `json:"errors"`
	Truncated bool                 `json:"truncated,omitempty"`
	Codes     []string             `json:"codes,omitempty"`
}

// rowImport describes one kind of CSV load
type rowImport struct {
	required []string
	rules    func() []*csvimport.Rule
	apply    func(ctx context.Context, a *app, tenantID uuid.UUID, row csvimport.Row) (string, error)
}

var itemImport = rowImport{
	required: []string{"name"},
	rules: func() []*csvimport.Rule {
		return []*csvimport.Rule{
			csvimport.Column("name").Required().MaxLength(200).Unique(),
			csvimport.Column("category").MaxLength(100),
			csvimport.Column("unit").MaxLength(20),
			csvimport.Column("opening_stock").NonNegative(),
			csvimport.Column("reorder_level").NonNegative(),
		}
	},
	apply: func(ctx context.Context, a *app, tenantID uuid.UUID, row csvimport.Row) (string, error) {
		item, err := a.inventory.CreateItem(ctx, tenantID, inventoryapp.CreateItemRequest{
			Name:         row.Get("name"),
			Category:     row.Get("category"),
			Unit:         row.Get("unit"),
			OpeningStock: decimalOrZero(row.Get("opening_stock")),
			ReorderLevel: decimalOrZero(row.Get("reorder_level")),
		})
		if err != nil {
			return "", err
		}
		return item.Code, nil
	},
}

var movementImport = rowImport{
	required: []string{"item_id", "movement_type", "quantity"},
	rules: func() []*csvimport.Rule {
		return []*csvimport.Rule{
			csvimport.Column("item_id").Required().UUID(),
			csvimport.Column("movement_type").Required().OneOf("RECEIPT", "ISSUE", "TRANSFER", "ADJUSTMENT", "RETURN"),
			csvimport.Column("quantity").Required().NonNegative(),
			csvimport.Column("movement_date").Date(),
			csvimport.Column("from_location").MaxLength(100),
			csvimport.Column("to_location").MaxLength(100),
			csvimport.Column("reference").MaxLength(100),
			csvimport.Column("notes").MaxLength(500),
		}
	},
	apply: func(ctx context.Context, a *app, tenantID uuid.UUID, row csvimport.Row) (string, error) {
		req := inventoryapp.RecordMovementRequest{
			ItemID:       uuid.MustParse(row.Get("item_id")),
			MovementType: strings.ToUpper(row.Get("movement_type")),
			Quantity:     decimalOrZero(row.Get("quantity")),
			FromLocation: row.Get("from_location"),
			ToLocation:   row.Get("to_location"),
			Reference:    row.Get("reference"),
			Notes:        row.Get("notes"),
		}
		if raw := row.Get("movement_date"); raw != "" {
			d, _ := time.Parse(time.DateOnly, raw)
			req.MovementDate = &d
		}
		m, err := a.inventory.RecordStockMovement(ctx, tenantID, req)
		if err != nil {
			return "", err
		}
		return m.Code, nil
	},
}

// decimalOrZero parses a value the rules already accepted
func decimalOrZero(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func newImportItemsCommand(get func() *app) *cobra.Command {
	return newImportCommand(get, "import-items <file.csv>",
		"Create inventory items with opening stock (columns: name, category, unit, opening_stock, reorder_level)",
		itemImport)
}

func newImportMovementsCommand(get func() *app) *cobra.Command {
	return newImportCommand(get, "import-movements <file.csv>",
		"Record stock movements in file order (columns: item_id, movement_type, quantity, movement_date, from_location, to_location, reference, notes)",
		movementImport)
}

func newImportCommand(get func() *app, use, short string, spec rowImport) *cobra.Command {
	var dryRun bool
	var maxErrors int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			a := get()
			result, err := runImport(cmd.Context(), a, tenantID, args[0], spec, dryRun, maxErrors)
			if err != nil {
				return err
			}
			if err := writeJSON(a.out, result); err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%w: %d of %d", errRowsRejected, result.Failed, result.Rows)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	cmd.Flags().IntVar(&maxErrors, "max-errors", csvimport.DefaultMaxErrors, "row errors to report")
	return cmd
}

// runImport validates the whole file first and writes nothing if any row is
// invalid. Valid files are then applied row by row; a row the ledger rejects
// is reported and later rows still run.
func runImport(ctx context.Context, a *app, tenantID uuid.UUID, path string, spec rowImport, dryRun bool, maxErrors int) (*importResult, error) {
	f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := csvimport.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if missing := reader.Missing(spec.required...); len(missing) > 0 {
		return nil, fmt.Errorf("%s is missing columns: %s", path, strings.Join(missing, ", "))
	}
	rows, err := reader.All()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	v := csvimport.NewValidator(maxErrors, spec.rules()...)
	invalid := 0
	for _, row := range rows {
		if !v.Validate(row) {
			invalid++
		}
	}

	result := &importResult{File: path, DryRun: dryRun, Rows: len(rows), Failed: invalid}
	if invalid > 0 || dryRun {
		result.Errors, result.Truncated = v.Errors(), v.Truncated()
		return result, nil
	}

	for _, row := range rows {
		code, err := spec.apply(ctx, a, tenantID, row)
		if err != nil {
			v.Add(rejection(row.Line, err))
			result.Failed++
			a.log.Debug("import row rejected", zap.Int("line", row.Line), zap.Error(err))
			continue
		}
		result.Imported++
		result.Codes = append(result.Codes, code)
	}
	result.Errors, result.Truncated = v.Errors(), v.Truncated()
	a.log.Info("import finished",
		zap.String("file", path),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func rejection(line int, err error) csvimport.RowError {
	re := csvimport.RowError{Line: line, Code: csvimport.CodeRejected, Message: err.Error()}
	var de *shared.DomainError
	if errors.As(err, &de) {
		re.Code = de.Code
		re.Message = de.Message
		if field, ok := de.Details["field"].(string); ok {
			re.Column = field
		}
	}
	return re
}
