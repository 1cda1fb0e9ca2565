// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// doctors is the schema version 2 step, used by the write skew
// scenario. No constraint enforces the at-least-one-on-call business
// rule on purpose; the scenarios probe how isolation levels handle
// its application-side enforcement.
var doctors = step{
	version: 2,
	name:    "doctors",
	up: func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.Exec(
			ctx,
			`CREATE TABLE doctors (
    name text PRIMARY KEY,
    shift_id bigint NOT NULL,
    on_call boolean NOT NULL DEFAULT false
)`,
		)
		return err
	},
	down: func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.Exec(ctx, "DROP TABLE doctors")
		return err
	},
}
