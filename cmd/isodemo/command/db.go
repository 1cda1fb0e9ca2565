// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/momeni/isolation-levels/pkg/adapter/config"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/migration"
	"github.com/momeni/isolation-levels/pkg/core/repo"
	"github.com/momeni/isolation-levels/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database schema management actions",
	Long: `Database schema management actions can be chosen by
sub-commands, mirroring the interactive menu of the root command for
scripted use. The migrate sub-command applies schema steps upwards,
the rollback sub-command reverts them downwards, and the status
sub-command lists the applied versions.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Apply schema steps up to the given or latest version",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withPool(func(ctx context.Context, p repo.Pool, _ *config.Config) error {
			uc := migrationuc.New(migration.New(p))
			if len(args) == 0 {
				return uc.MigrateToLatest(ctx)
			}
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return uc.MigrateTo(ctx, v)
		})
	},
}

var assumeYes bool

var rollbackCmd = &cobra.Command{
	Use:   "rollback [version]",
	Short: "Revert the last schema step or revert down to a version",
	Long: `Revert the last applied schema step, or with an explicit
version argument, revert all steps above that version. Rolling back
drops tables together with their rows, hence, a confirmation is
required unless the -y flag is passed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if !assumeYes {
			fmt.Print("this action drops tables, continue? [y/N] ")
			if !confirm(bufio.NewScanner(os.Stdin)) {
				fmt.Println("skipped")
				return nil
			}
		}
		return withPool(func(ctx context.Context, p repo.Pool, _ *config.Config) error {
			uc := migrationuc.New(migration.New(p))
			if len(args) == 0 {
				return uc.RollbackOne(ctx)
			}
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return uc.RollbackTo(ctx, v)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List the applied schema versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPool(func(ctx context.Context, p repo.Pool, _ *config.Config) error {
			uc := migrationuc.New(migration.New(p))
			return listApplied(ctx, uc, cmd.OutOrStdout())
		})
	},
}

func parseVersion(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return uint(v), nil
}

func init() {
	rollbackCmd.Flags().BoolVarP(
		&assumeYes, "yes", "y", false,
		"do not ask for a rollback confirmation",
	)
	dbCmd.AddCommand(migrateCmd, rollbackCmd, statusCmd)
	rootCmd.AddCommand(dbCmd)
}
