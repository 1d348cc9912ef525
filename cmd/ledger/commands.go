package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/services"
	"ledger/internal/summary"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the combined income and expense summary",
		Long: `Print both kinds' totals, category breakdown, month comparison and trends,
plus the balance and transaction count. Use --kind for a single kind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kindFlag, _ := cmd.Flags().GetString("kind")
			return withApp(cmd, func(ctx context.Context, a *app, owner string) error {
				params := filterParams(cmd)
				if kindFlag == "" {
					result, err := a.summary.ComputeSummary(ctx, owner, params)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), result)
				}

				kind, err := summary.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				result, err := a.summary.ComputeKindSummary(ctx, owner, kind, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().String("kind", "", "income or expense (default: both)")
	return cmd
}

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print recent incomes and expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("max")
			return withApp(cmd, func(ctx context.Context, a *app, owner string) error {
				entries, err := a.summary.ComputeFeed(ctx, owner, filterParams(cmd), limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().Int("max", 0, "maximum entries (default: FEED_SIZE)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write records to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("ledger-%s.xlsx", kind)
			}

			return withApp(cmd, func(ctx context.Context, a *app, owner string) error {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				if err := a.export.Export(ctx, owner, services.ExportScope(kind), filterParams(cmd), f); err != nil {
					_ = f.Close()
					_ = os.Remove(out)
					return err
				}
				info, err := f.Stat()
				if err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"file": out, "bytes": info.Size(), "scope": kind})
			})
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().String("kind", string(services.ExportAll), "incomes, expenses or all")
	cmd.Flags().String("out", "", "output file (default: ledger-<kind>.xlsx)")
	return cmd
}
