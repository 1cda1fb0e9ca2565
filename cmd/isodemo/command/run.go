// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/isolation-levels/pkg/adapter/config"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/accountsrp"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/doctorsrp"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/listingsrp"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/migration"
	"github.com/momeni/isolation-levels/pkg/core/repo"
	"github.com/momeni/isolation-levels/pkg/core/usecase/migrationuc"
	"github.com/momeni/isolation-levels/pkg/core/usecase/scenariouc"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all anomaly scenario cases and print a JSON report",
	Long: `Run all declared anomaly scenario cases against the
configured database and print the observed outcomes as a JSON report,
comparing them with the documented expectations. Missing schema steps
are applied beforehand. The outcomes rely on sleep-forced
interleavings, hence, a heavily loaded system may need a larger
scenarios delay-unit setting to reproduce the documented results.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPool(runScenarios(cmd))
	},
}

// report aggregates the scenario outcomes for the JSON rendition.
// Each entry pairs one declared case with its observed outcome and
// an ok flag marking whether they agree.
type report struct {
	DirtyWrites []dirtyWritesEntry `json:"dirty_writes"`
	ReadSkew    []readSkewEntry    `json:"read_skew"`
	WriteSkew   []writeSkewEntry   `json:"write_skew"`
}

type dirtyWritesEntry struct {
	Case    scenariouc.DirtyWriteCase     `json:"case"`
	Outcome *scenariouc.DirtyWriteOutcome `json:"outcome"`
	OK      bool                          `json:"ok"`
}

type readSkewEntry struct {
	Case    scenariouc.ReadSkewCase     `json:"case"`
	Outcome *scenariouc.ReadSkewOutcome `json:"outcome"`
	OK      bool                        `json:"ok"`
}

type writeSkewEntry struct {
	Case    scenariouc.WriteSkewCase     `json:"case"`
	Outcome *scenariouc.WriteSkewOutcome `json:"outcome"`
	OK      bool                         `json:"ok"`
}

func runScenarios(
	cmd *cobra.Command,
) func(ctx context.Context, p repo.Pool, c *config.Config) error {
	return func(ctx context.Context, p repo.Pool, c *config.Config) error {
		muc := migrationuc.New(migration.New(p))
		if err := muc.MigrateToLatest(ctx); err != nil {
			return err
		}
		var opts []scenariouc.Option
		if d := c.Scenarios.DelayUnit; d != nil {
			opts = append(
				opts, scenariouc.WithDelayUnit(time.Duration(*d)),
			)
		}
		uc, err := scenariouc.New(
			p,
			accountsrp.New(), doctorsrp.New(), listingsrp.New(),
			opts...,
		)
		if err != nil {
			return fmt.Errorf("creating scenario use case: %w", err)
		}
		rep := &report{}
		ok := true
		for _, tc := range scenariouc.DirtyWriteCases {
			out, err := uc.DirtyWrites(ctx, tc)
			if err != nil {
				return fmt.Errorf(
					"dirty writes at %v: %w", tc.Isolation, err,
				)
			}
			matched := out.Buyer == tc.Buyer &&
				out.Recipient == tc.Recipient &&
				out.SerializationFailure == tc.SerializationFailure
			ok = ok && matched
			rep.DirtyWrites = append(rep.DirtyWrites, dirtyWritesEntry{
				Case: tc, Outcome: out, OK: matched,
			})
		}
		for _, tc := range scenariouc.ReadSkewCases {
			out, err := uc.ReadSkew(ctx, tc)
			if err != nil {
				return fmt.Errorf(
					"read skew at %v: %w", tc.Isolation, err,
				)
			}
			matched := out.Sum == tc.Sum && !out.SerializationFailure
			ok = ok && matched
			rep.ReadSkew = append(rep.ReadSkew, readSkewEntry{
				Case: tc, Outcome: out, OK: matched,
			})
		}
		for _, tc := range scenariouc.WriteSkewCases {
			out, err := uc.WriteSkew(ctx, tc)
			if err != nil {
				return fmt.Errorf(
					"write skew at %v (lock=%v): %w",
					tc.Isolation, tc.Lock, err,
				)
			}
			matched := out.OnCall == tc.OnCall &&
				out.SerializationFailure == tc.SerializationFailure
			ok = ok && matched
			rep.WriteSkew = append(rep.WriteSkew, writeSkewEntry{
				Case: tc, Outcome: out, OK: matched,
			})
		}
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		if !ok {
			return errors.New(
				"some outcomes mismatched their expectations",
			)
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
