// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema verifies the presence or absence of the tables which
// the schema migration steps manage, for testing purposes. Only the
// schema itself is checked and not its contents, since the scenario
// fixtures reseed their rows independently.
package schema

import (
	"context"
	"testing"

	"github.com/momeni/isolation-levels/pkg/core/repo"
	"github.com/stretchr/testify/assert"
)

// tablesByVersion lists the tables which each migration step creates.
var tablesByVersion = map[uint][]string{
	1: {"users", "accounts"},
	2: {"doctors"},
	3: {"listings", "invoices"},
}

// Verifier checks the database schema state using a wrapped connection
// pool, marking the `t` argument as failed on unexpected tables.
type Verifier struct {
	p repo.Pool
}

// New instantiates a Verifier struct, wrapping the `p` connection pool.
func New(p repo.Pool) *Verifier {
	return &Verifier{p}
}

// VerifyVersion asserts that all tables of the migration steps up to
// and including the `version` step exist, while the tables of the
// later steps are absent.
func (v *Verifier) VerifyVersion(
	ctx context.Context, t *testing.T, version uint,
) {
	for sv, tables := range tablesByVersion {
		for _, table := range tables {
			exists, err := v.tableExists(ctx, table)
			if !assert.NoError(t, err, "checking table %q", table) {
				continue
			}
			assert.Equal(
				t, sv <= version, exists,
				"table %q existence at version %d", table, version,
			)
		}
	}
}

func (v *Verifier) tableExists(
	ctx context.Context, table string,
) (exists bool, err error) {
	err = v.p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err := c.Query(ctx, `SELECT EXISTS (
    SELECT FROM information_schema.tables
    WHERE table_schema='public' AND table_name=$1
)`, table)
		if err != nil {
			return err
		}
		defer rows.Close()
		if !rows.Next() {
			return rows.Err()
		}
		if err := rows.Scan(&exists); err != nil {
			return err
		}
		return rows.Err()
	})
	return exists, err
}
