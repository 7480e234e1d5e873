// Command sqlstore synchronizes an expected model schema against a live
// database: it emits migration and entity artifacts (sync), applies the
// emitted migrations (apply), and reports migration status (status).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"ariga.io/atlas/sql/sqltool"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	// Database drivers selectable via the dialect setting.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/authkit-go/sqlstore/migrate"

	sqldialect "github.com/authkit-go/sqlstore/dialect/sql"
)

var (
	cfgFile string
	cfg     *Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sqlstore",
		Short:         "Schema synchronization for the sqlstore adapter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			var err error
			cfg, err = LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			return err
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default "+ConfigFileName+")")
	pf.String("dsn", "", "database connection string")
	pf.String("dialect", "", "database dialect (postgres, mysql, sqlite)")
	pf.String("dir", migrate.DefaultDir, "artifact root directory")
	rootCmd.AddCommand(newSyncCmd(), newApplyCmd(), newStatusCmd())
	return rootCmd
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Diff the expected schema against the database and emit migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			drv, err := sqldialect.Open(cfg.Dialect, cfg.DSN)
			if err != nil {
				return err
			}
			defer drv.Close()
			opts := []migrate.Option{migrate.WithDir(cfg.Dir)}
			if cfg.Format == "goose" {
				opts = append(opts, migrate.WithFormatter(sqltool.GooseFormatter))
			}
			clog, err := migrate.New(drv, reg, opts...).Synchronize(cmd.Context())
			if err != nil {
				return err
			}
			if clog.Empty() {
				cmd.Println("schema already synchronized")
				return nil
			}
			renderActions(cmd, clog.Actions)
			return nil
		},
	}
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply the emitted migration directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Format != "goose" {
				return fmt.Errorf("apply requires the goose migration format, have %q", cfg.Format)
			}
			drv, err := sqldialect.Open(cfg.Dialect, cfg.DSN)
			if err != nil {
				return err
			}
			defer drv.Close()
			if err := goose.SetDialect(cfg.Dialect); err != nil {
				return err
			}
			return goose.Up(drv.DB(), migrationsDir())
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Format != "goose" {
				return fmt.Errorf("status requires the goose migration format, have %q", cfg.Format)
			}
			drv, err := sqldialect.Open(cfg.Dialect, cfg.DSN)
			if err != nil {
				return err
			}
			defer drv.Close()
			if err := goose.SetDialect(cfg.Dialect); err != nil {
				return err
			}
			return goose.Status(drv.DB(), migrationsDir())
		},
	}
}

func migrationsDir() string {
	return filepath.Join(cfg.Dir, "migrations")
}

func renderActions(cmd *cobra.Command, actions []migrate.Action) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Table", "Action", "Added", "Dropped", "File"})
	for _, a := range actions {
		t.AppendRow(table.Row{
			a.Table,
			a.Action,
			join(a.AddColumns),
			join(a.DropColumns),
			a.File,
		})
	}
	t.Render()
}

func join(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
