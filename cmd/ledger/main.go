// Command ledger prints summaries, feeds and exports straight from the
// database, without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ledger/internal/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "ledger",
		Short: "Income and expense summaries from the command line",
		Long: `ledger reads a user's incomes and expenses from the configured database
and prints the same summaries, feed and exports the API serves.

Settings come from flags, LEDGER_* environment variables or a config file.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ledger.yaml)")
	rootCmd.PersistentFlags().String("owner", "", "user ID or email whose records are read")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("db-path", "", "sqlite database file")
	rootCmd.PersistentFlags().String("timezone", "", "IANA zone for calendar boundaries")
	rootCmd.PersistentFlags().String("env", "development", "log mode (development, production, test)")

	// Bind flags to viper
	_ = viper.BindPFlag("owner", rootCmd.PersistentFlags().Lookup("owner"))
	_ = viper.BindPFlag("database.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db-path"))
	_ = viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))
	_ = viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))

	// Add commands
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(feedCmd())
	rootCmd.AddCommand(exportCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("ledger")
		viper.SetConfigType("yaml")
	}

	// LEDGER_DATABASE_PATH and friends.
	viper.SetEnvPrefix("LEDGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.Init(viper.GetString("env"))
	return nil
}
