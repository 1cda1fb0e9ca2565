// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// listingsInvoices is the schema version 3 step, used by the dirty
// writes scenario.
var listingsInvoices = step{
	version: 3,
	name:    "listings and invoices",
	up: func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.Exec(
			ctx,
			`CREATE TABLE listings (
    id uuid PRIMARY KEY,
    buyer text
);
CREATE TABLE invoices (
    id uuid PRIMARY KEY,
    listing_id uuid NOT NULL REFERENCES listings (id),
    recipient text
)`,
		)
		return err
	},
	down: func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.Exec(ctx, "DROP TABLE invoices; DROP TABLE listings")
		return err
	},
}
