package cmd

import (
	"fmt"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/store"
	"github.com/huangsam/fitstar/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// warehouseBackendSetup resolves the warehouse backend without opening it,
// so migrations and clearing work against a fresh or broken database.
func warehouseBackendSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := backendSetup("warehouse")
	if err != nil {
		return err
	}
	cfg.WarehouseBackend = backend
	cfg.WarehouseDBConnect = connStr
	return nil
}

// warehouseCmd focused on the warehouse database.
var warehouseCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Manage the star schema warehouse database",
	Long: `When a warehouse backend is configured, every build loads the star schema into
dim_users, dim_time, fact_activity, fact_heart_rate, fact_sleep and fact_weight,
replacing their previous contents in one transaction.

Subcommands:
  status  - Show warehouse row counts
  migrate - Run schema migrations
  clear   - Remove the warehouse tables`,
}

// warehouseStatusCmd shows warehouse status.
var warehouseStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display warehouse row counts and connection details",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := warehouseBackendSetup(cmd, args); err != nil {
			return err
		}
		if err := store.InitStores(schema.NoneBackend, "", cfg.WarehouseBackend, cfg.WarehouseDBConnect); err != nil {
			return fmt.Errorf("failed to initialize warehouse: %w", err)
		}
		storeManager = store.Manager
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetWarehouse().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get warehouse status", err)
		}
		store.PrintWarehouseStatus(status)
	},
}

// warehouseMigrateCmd runs database migrations for the warehouse.
var warehouseMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run warehouse schema migrations (upgrades/downgrades)",
	Long: `Manage the warehouse schema version.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  fitstar warehouse migrate --warehouse-backend sqlite
  fitstar warehouse migrate --warehouse-backend sqlite --target-version 0`,
	PreRunE: warehouseBackendSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.MigrateWarehouse(cfg.WarehouseBackend, cfg.WarehouseDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// warehouseClearCmd removes the warehouse.
var warehouseClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the warehouse tables",
	Long: `For SQLite the database file is removed. For MySQL and PostgreSQL every
migration is rolled back.`,
	PreRunE: warehouseBackendSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ClearWarehouse(cfg.WarehouseBackend, cfg.WarehouseDBConnect); err != nil {
			contract.LogFatal("Failed to clear warehouse", err)
		}
		fmt.Println("Warehouse cleared successfully.")
	},
}
