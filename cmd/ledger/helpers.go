package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ledger/internal/config"
	"ledger/internal/database"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/summary"
)

// app is the slice of the service graph the CLI needs.
type app struct {
	db      *database.Manager
	users   services.UserServicer
	summary services.SummaryServicer
	export  services.ExportServicer
}

// loadConfig reads the API's environment configuration and lets viper
// settings override it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("database.driver"); v != "" {
		cfg.DBDriver = v
	}
	if v := viper.GetString("database.path"); v != "" {
		cfg.DBPath = v
	}
	if tz := viper.GetString("timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return nil, err
	}
	mgr, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, err
	}
	// Postgres schemas are owned by cmd/migrate.
	if dbConfig.Driver == database.DriverSQLite {
		if err := mgr.Migrate(); err != nil {
			_ = mgr.Close()
			return nil, err
		}
	}

	db := mgr.DB()
	incomes := store.NewRecordStore(db, summary.KindIncome)
	expenses := store.NewRecordStore(db, summary.KindExpense)

	return &app{
		db:      mgr,
		users:   services.NewUserService(db),
		summary: services.NewSummaryService(incomes, expenses, time.Now, cfg.Location, cfg.FeedSize),
		export:  services.NewExportService(incomes, expenses, cfg.Location),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// resolveOwner turns the --owner value into a user ID. Values containing an
// @ are looked up as emails.
func (a *app) resolveOwner(ctx context.Context) (string, error) {
	owner := strings.TrimSpace(viper.GetString("owner"))
	if owner == "" {
		return "", fmt.Errorf("--owner (or LEDGER_OWNER) is required")
	}
	if !strings.Contains(owner, "@") {
		return owner, nil
	}
	user, err := a.users.GetUserByEmail(ctx, owner)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", owner, err)
	}
	return user.ID, nil
}

// addFilterFlags registers --category, --start and --end on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("category", "", "category filter")
	cmd.Flags().String("start", "", "inclusive start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().String("end", "", "inclusive end (RFC3339 or YYYY-MM-DD)")
}

func filterParams(cmd *cobra.Command) summary.FilterParams {
	category, _ := cmd.Flags().GetString("category")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	return summary.FilterParams{Category: category, StartDate: start, EndDate: end}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withApp opens the app, resolves the owner and runs fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app, owner string) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	owner, err := a.resolveOwner(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, a, owner)
}
