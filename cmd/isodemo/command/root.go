// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the
// isolation levels demonstration project. Commands are organized
// using the cobra library.
// The root command starts an interactive migration menu while the
// "db" sub-commands expose the same migration actions for scripted
// use and the "run" command executes all anomaly scenario cases.
//
//	./isodemo [-c /path/of/config.yaml]     # interactive menu
//	./isodemo db migrate [version] [-c /path/of/config.yaml]
//	./isodemo db rollback [version] [-y] [-c /path/of/config.yaml]
//	./isodemo db status [-c /path/of/config.yaml]
//	./isodemo run [-c /path/of/config.yaml]
package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/momeni/isolation-levels/pkg/adapter/config"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/migration"
	"github.com/momeni/isolation-levels/pkg/core/repo"
	"github.com/momeni/isolation-levels/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "isodemo",
	Short: "A PostgreSQL transaction isolation anomalies demonstration",
	Long: `A PostgreSQL transaction isolation anomalies demonstration
which runs pairs of concurrent transactions against a live database
in order to show how the read-committed, repeatable-read, and
serializable isolation levels resolve or fail to resolve the dirty
writes, non-repeatable reads, and write skew anomalies.
The root command presents an interactive menu for the schema
migration actions: the users and accounts, doctors, and listings and
invoices tables are created by three reversible schema versions.
The run sub-command executes every declared scenario case and prints
the observed outcomes as a JSON report.`,
	RunE: interactiveMenu,
}

func interactiveMenu(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	p, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	uc := migrationuc.New(migration.New(p))
	return runMenu(ctx, uc, bufio.NewScanner(os.Stdin), os.Stdout)
}

// connect loads the configuration file, installs the configured
// logger, ensures that the target database exists (prompting the
// operator before creating a missing one), and opens a connection
// pool to it.
func connect(ctx context.Context) (*postgres.Pool, *config.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if err := c.Log.SetupLogger(); err != nil {
		return nil, nil, fmt.Errorf("setting up logger: %w", err)
	}
	created, err := postgres.EnsureDatabase(
		ctx, c.Database.URL(), confirmCreation,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"ensuring database existence: %w", err,
		)
	}
	if created {
		fmt.Printf("created the %q database\n", c.Database.Name)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating DB pool: %w", err)
	}
	return p, c, nil
}

func confirmCreation(dbName string) bool {
	fmt.Printf("database %q does not exist, create it? [y/N] ", dbName)
	return confirm(bufio.NewScanner(os.Stdin))
}

func confirm(in *bufio.Scanner) bool {
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}

// withPool runs f with a fresh connection pool and the loaded
// configuration, closing the pool at the end. It is shared by the
// non-interactive sub-commands.
func withPool(
	f func(ctx context.Context, p repo.Pool, c *config.Config) error,
) error {
	ctx := context.Background()
	p, c, err := connect(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	return f(ctx, p, c)
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
