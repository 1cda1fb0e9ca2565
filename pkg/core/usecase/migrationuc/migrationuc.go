// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc contains the schema migration use case. It
// wraps a repo.Migrator instance and exposes the five operations
// which the CLI menu offers: migrate to latest, migrate to a version,
// rollback one step, rollback to a version, and list the applied
// versions.
package migrationuc

import (
	"context"
	"fmt"

	"github.com/momeni/isolation-levels/pkg/core/log"
	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// UseCase represents the schema migration use case.
type UseCase struct {
	mig repo.Migrator
}

// New instantiates a migration use case over the mig migrator.
func New(mig repo.Migrator) *UseCase {
	return &UseCase{mig: mig}
}

// Latest returns the largest registered schema version.
func (uc *UseCase) Latest() uint {
	return uc.mig.Latest()
}

// Applied lists the applied schema versions in ascending order.
func (uc *UseCase) Applied(ctx context.Context) ([]uint, error) {
	vers, err := uc.mig.Applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing applied versions: %w", err)
	}
	return vers, nil
}

// MigrateToLatest applies all unapplied schema steps.
func (uc *UseCase) MigrateToLatest(ctx context.Context) error {
	return uc.MigrateTo(ctx, uc.mig.Latest())
}

// MigrateTo applies all unapplied schema steps up to and including
// the version step.
func (uc *UseCase) MigrateTo(ctx context.Context, version uint) error {
	if err := uc.mig.UpTo(ctx, version); err != nil {
		return fmt.Errorf("migrating up to version %d: %w", version, err)
	}
	log.Info(
		ctx, "schema is migrated",
		log.Version("version", version),
	)
	return nil
}

// RollbackOne reverts the most recently applied schema step, if any.
func (uc *UseCase) RollbackOne(ctx context.Context) error {
	if err := uc.mig.DownOne(ctx); err != nil {
		return fmt.Errorf("rolling back one version: %w", err)
	}
	return nil
}

// RollbackTo reverts all applied schema steps with versions greater
// than the version argument. RollbackTo(ctx, 0) reverts everything.
func (uc *UseCase) RollbackTo(ctx context.Context, version uint) error {
	if err := uc.mig.DownTo(ctx, version); err != nil {
		return fmt.Errorf(
			"rolling back to version %d: %w", version, err,
		)
	}
	log.Info(
		ctx, "schema is rolled back",
		log.Version("version", version),
	)
	return nil
}
