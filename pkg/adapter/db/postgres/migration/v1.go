// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// usersAccounts is the schema version 1 step, used by the
// non-repeatable reads scenario.
var usersAccounts = step{
	version: 1,
	name:    "users and accounts",
	up: func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.Exec(
			ctx,
			`CREATE TABLE users (
    id bigserial PRIMARY KEY,
    name text NOT NULL
);
CREATE TABLE accounts (
    id bigserial PRIMARY KEY,
    user_id bigint NOT NULL REFERENCES users (id),
    balance bigint NOT NULL DEFAULT 0
)`,
		)
		return err
	},
	down: func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.Exec(ctx, "DROP TABLE accounts; DROP TABLE users")
		return err
	},
}
