// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration reifies the repo.Migrator interface for the
// PostgreSQL adapter. The database schema is described by an ordered
// list of reversible steps with consecutive integer versions and the
// applied versions are recorded in the schema_migrations table.
// Each step runs its DDL statements and its bookkeeping row change in
// one transaction, so an interrupted operation leaves the schema at a
// well-defined version.
package migration

import (
	"context"
	"fmt"

	"github.com/momeni/isolation-levels/pkg/core/cerr"
	"github.com/momeni/isolation-levels/pkg/core/log"
	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// step is one reversible schema change. The up and down functions
// receive an open transaction and must not commit or roll it back
// themselves.
type step struct {
	version uint
	name    string
	up      func(ctx context.Context, tx repo.Tx) error
	down    func(ctx context.Context, tx repo.Tx) error
}

// steps lists all registered schema versions in ascending order.
// The step with index i must carry version i+1.
var steps = []step{
	usersAccounts,
	doctors,
	listingsInvoices,
}

// Migrator applies and reverts the registered schema steps over a
// database connection pool. It implements repo.Migrator.
type Migrator struct {
	pool repo.Pool
}

// New instantiates a Migrator over the p connection pool.
func New(p repo.Pool) *Migrator {
	return &Migrator{pool: p}
}

// Latest returns the largest registered schema version.
func (m *Migrator) Latest() uint {
	return steps[len(steps)-1].version
}

// Applied lists the applied schema versions in ascending order.
// An absent schema_migrations table is reported as no applied
// versions, since the bookkeeping table is created lazily by the
// first applied step.
func (m *Migrator) Applied(ctx context.Context) (vers []uint, err error) {
	err = m.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var exists bool
		rows, err := c.Query(
			ctx,
			`SELECT EXISTS(
    SELECT 1 FROM information_schema.tables
    WHERE table_name='schema_migrations'
)`,
		)
		if err != nil {
			return fmt.Errorf("checking schema_migrations: %w", err)
		}
		if err = scanOne(rows, &exists); err != nil {
			return err
		}
		if !exists {
			return nil
		}
		rows, err = c.Query(
			ctx,
			"SELECT version FROM schema_migrations ORDER BY version",
		)
		if err != nil {
			return fmt.Errorf("querying applied versions: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var v uint
			if err := rows.Scan(&v); err != nil {
				return fmt.Errorf("scanning version: %w", err)
			}
			vers = append(vers, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return vers, nil
}

// UpTo applies all unapplied steps with versions less than or equal
// to the version argument, in ascending order. Already applied steps
// are skipped without any change.
func (m *Migrator) UpTo(ctx context.Context, version uint) error {
	if version == 0 || version > m.Latest() {
		return &cerr.UnknownVersionError{Version: version}
	}
	applied, err := m.appliedSet(ctx)
	if err != nil {
		return err
	}
	for _, s := range steps {
		if s.version > version {
			break
		}
		if applied[s.version] {
			log.Debug(
				ctx, "schema step is already applied",
				log.Version("version", s.version),
			)
			continue
		}
		if err := m.apply(ctx, s); err != nil {
			return fmt.Errorf(
				"applying version %d (%s): %w", s.version, s.name, err,
			)
		}
	}
	return nil
}

// DownTo reverts all applied steps with versions greater than the
// version argument, in descending order. DownTo(ctx, 0) reverts the
// whole schema.
func (m *Migrator) DownTo(ctx context.Context, version uint) error {
	if version > m.Latest() {
		return &cerr.UnknownVersionError{Version: version}
	}
	applied, err := m.appliedSet(ctx)
	if err != nil {
		return err
	}
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if s.version <= version || !applied[s.version] {
			continue
		}
		if err := m.revert(ctx, s); err != nil {
			return fmt.Errorf(
				"reverting version %d (%s): %w", s.version, s.name, err,
			)
		}
	}
	return nil
}

// DownOne reverts the most recently applied step. Without any applied
// step, it returns nil without touching the database.
func (m *Migrator) DownOne(ctx context.Context) error {
	vers, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if len(vers) == 0 {
		return nil
	}
	last := vers[len(vers)-1]
	return m.DownTo(ctx, last-1)
}

func (m *Migrator) appliedSet(ctx context.Context) (map[uint]bool, error) {
	vers, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(vers))
	for _, v := range vers {
		set[v] = true
	}
	return set, nil
}

func (m *Migrator) apply(ctx context.Context, s step) error {
	log.Info(
		ctx, "applying schema step",
		log.Version("version", s.version),
	)
	return m.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, err := tx.Exec(
				ctx,
				`CREATE TABLE IF NOT EXISTS schema_migrations (
    version bigint PRIMARY KEY,
    applied_at timestamptz NOT NULL DEFAULT now()
)`,
			)
			if err != nil {
				return fmt.Errorf("creating schema_migrations: %w", err)
			}
			if err := s.up(ctx, tx); err != nil {
				return err
			}
			_, err = tx.Exec(
				ctx,
				"INSERT INTO schema_migrations(version) VALUES ($1)",
				s.version,
			)
			if err != nil {
				return fmt.Errorf("recording version: %w", err)
			}
			return nil
		})
	})
}

func (m *Migrator) revert(ctx context.Context, s step) error {
	log.Info(
		ctx, "reverting schema step",
		log.Version("version", s.version),
	)
	return m.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := s.down(ctx, tx); err != nil {
				return err
			}
			count, err := tx.Exec(
				ctx,
				"DELETE FROM schema_migrations WHERE version=$1",
				s.version,
			)
			if err != nil {
				return fmt.Errorf("removing version record: %w", err)
			}
			if count != 1 {
				return fmt.Errorf(
					"expected one version record, but got %d", count,
				)
			}
			return nil
		})
	})
}

// scanOne scans the single row of rows into dest and closes it.
func scanOne(rows repo.Rows, dest ...any) error {
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("fetching row: %w", err)
		}
		return fmt.Errorf("expected one row, but got none")
	}
	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("scanning row: %w", err)
	}
	return rows.Err()
}
