package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	reportapp "github.com/erp/ledger/internal/application/report"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errInconsistent = errors.New("ledger is inconsistent")

func newRootCommand(open opener) *cobra.Command {
	var current *app

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Ledger reconciliation and bulk loading for the ERP",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if current != nil {
				current.close()
			}
		},
	}
	rootCmd.PersistentFlags().String("tenant", "", "tenant id (required)")
	_ = rootCmd.MarkPersistentFlagRequired("tenant")

	get := func() *app { return current }
	rootCmd.AddCommand(
		newVerifyCommand(get),
		newSummaryCommand(get),
		newImportItemsCommand(get),
		newImportMovementsCommand(get),
	)
	return rootCmd
}

func tenantFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("tenant")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --tenant %q: %w", raw, err)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVerifyCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute cached balances from the ledger and report mismatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			a := get()
			result, err := a.reports.VerifyLedger(cmd.Context(), tenantID)
			if err != nil {
				return err
			}
			if err := writeJSON(a.out, result); err != nil {
				return err
			}
			if !result.Consistent {
				return fmt.Errorf("%w: %d mismatches", errInconsistent, len(result.Mismatches))
			}
			return nil
		},
	}
}

type summarizer func(ctx context.Context, a *app, tenantID uuid.UUID, req reportapp.SummaryRequest) (any, error)

var summaries = map[string]summarizer{
	"payments": func(ctx context.Context, a *app, t uuid.UUID, r reportapp.SummaryRequest) (any, error) {
		return a.reports.SummarizePayments(ctx, t, r)
	},
	"invoices": func(ctx context.Context, a *app, t uuid.UUID, r reportapp.SummaryRequest) (any, error) {
		return a.reports.SummarizeInvoices(ctx, t, r)
	},
	"bills": func(ctx context.Context, a *app, t uuid.UUID, r reportapp.SummaryRequest) (any, error) {
		return a.reports.SummarizeBills(ctx, t, r)
	},
	"petty-cash": func(ctx context.Context, a *app, t uuid.UUID, r reportapp.SummaryRequest) (any, error) {
		return a.reports.SummarizePettyCash(ctx, t, r)
	},
	"expenses": func(ctx context.Context, a *app, t uuid.UUID, r reportapp.SummaryRequest) (any, error) {
		return a.reports.SummarizeExpenses(ctx, t, r)
	},
	"stock-movements": func(ctx context.Context, a *app, t uuid.UUID, r reportapp.SummaryRequest) (any, error) {
		return a.reports.SummarizeStockMovements(ctx, t, r)
	},
}

func newSummaryCommand(get func() *app) *cobra.Command {
	var from, to, account string

	cmd := &cobra.Command{
		Use:       "summary <payments|invoices|bills|petty-cash|expenses|stock-movements>",
		Short:     "Print period totals for one ledger",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"payments", "invoices", "bills", "petty-cash", "expenses", "stock-movements"},
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok := summaries[args[0]]
			if !ok {
				return fmt.Errorf("unknown summary %q", args[0])
			}
			tenantID, err := tenantFlag(cmd)
			if err != nil {
				return err
			}
			req, err := summaryRequest(from, to, account)
			if err != nil {
				return err
			}
			a := get()
			out, err := run(cmd.Context(), a, tenantID, req)
			if err != nil {
				return err
			}
			return writeJSON(a.out, out)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&account, "account", "", "petty-cash account id (petty-cash only)")
	return cmd
}

func summaryRequest(from, to, account string) (reportapp.SummaryRequest, error) {
	var req reportapp.SummaryRequest
	for _, d := range []struct {
		raw  string
		name string
		dst  **time.Time
	}{{from, "from", &req.From}, {to, "to", &req.To}} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, d.raw)
		if err != nil {
			return req, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", d.name, d.raw)
		}
		*d.dst = &t
	}
	if account != "" {
		id, err := uuid.Parse(account)
		if err != nil {
			return req, fmt.Errorf("invalid --account %q: %w", account, err)
		}
		req.AccountID = &id
	}
	return req, nil
}

func openCSV(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}
